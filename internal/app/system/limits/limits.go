// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize caps meeting, faculty and session request bodies.
	MaxJSONBodySize = 64 << 10 // 64 KB

	// MaxVoiceTextSize caps voice-parse requests. Transcripts are short;
	// anything larger is not a spoken command.
	MaxVoiceTextSize = 8 << 10 // 8 KB
)
