// internal/app/system/voice/dialogflow.go
package voice

import (
	"context"
	"fmt"
	"strings"
	"time"

	dialogflowapi "cloud.google.com/go/dialogflow/apiv2"
	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"github.com/bmsit/facultymeet/internal/domain/models"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

// Dialogflow is the external NLU collaborator. Each Detect call uses a
// fresh session id so no conversational state accumulates server-side.
type Dialogflow struct {
	projectID string
	sessions  *dialogflowapi.SessionsClient
}

// NewDialogflow builds the Dialogflow NLU client. An empty credentialsFile
// falls back to application-default credentials.
func NewDialogflow(ctx context.Context, projectID, credentialsFile string) (*Dialogflow, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	sessions, err := dialogflowapi.NewSessionsClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Dialogflow{projectID: projectID, sessions: sessions}, nil
}

// Close releases the underlying gRPC connection.
func (d *Dialogflow) Close() error {
	return d.sessions.Close()
}

// Detect implements NLU via Dialogflow ES intent detection.
func (d *Dialogflow) Detect(ctx context.Context, text string, now time.Time) (Result, bool, error) {
	session := fmt.Sprintf("projects/%s/agent/sessions/%s", d.projectID, uuid.NewString())
	resp, err := d.sessions.DetectIntent(ctx, &dialogflowpb.DetectIntentRequest{
		Session: session,
		QueryInput: &dialogflowpb.QueryInput{
			Input: &dialogflowpb.QueryInput_Text{
				Text: &dialogflowpb.TextInput{Text: text, LanguageCode: "en"},
			},
		},
	})
	if err != nil {
		return Result{}, false, err
	}

	fields := resp.GetQueryResult().GetParameters().GetFields()
	if len(fields) == 0 {
		return Result{}, false, nil
	}

	attendees := normalizeAttendees(stringField(fields, "attendees"))
	location := strings.TrimSpace(stringField(fields, "location"))
	if location == "" {
		location = "Not specified"
	}

	start := now
	if dt := datetimeField(fields); dt != "" {
		if parsed, err := time.Parse(time.RFC3339, dt); err == nil {
			start = parsed
		}
	}

	return Result{
		Title:           titleFor(attendees),
		Attendees:       attendees,
		Location:        location,
		StartTimeMillis: start.UnixMilli(),
	}, true, nil
}

func stringField(fields map[string]*structpb.Value, key string) string {
	if v, ok := fields[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

// datetimeField digs the datetime parameter out of the agent response,
// tolerating both the flat string form and the struct form Dialogflow
// returns for @sys.date-time.
func datetimeField(fields map[string]*structpb.Value) string {
	for _, key := range []string{"datetime", "date_time", "date"} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if s := v.GetStringValue(); s != "" {
			return s
		}
		if sv := v.GetStructValue(); sv != nil {
			for _, inner := range []string{"date_time", "datetime", "date"} {
				if s := stringField(sv.GetFields(), inner); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func normalizeAttendees(value string) string {
	lower := strings.ToLower(value)
	switch {
	case strings.Contains(lower, "hod"):
		return models.AudienceAllHODs
	case strings.Contains(lower, "dean"):
		return models.AudienceAllDeans
	case value == "":
		return models.AudienceAllFaculty
	default:
		return models.AudienceAllFaculty
	}
}
