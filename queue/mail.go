package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	mail "github.com/quorumhq/quorum/api/email"
)

const TypeResumeEmailDelivery = "mail:resume-link"

type ResumeEmailPayload struct {
	Email          string
	SurveyTitle    string
	ResumeLink     string
	CurrentSection int
	TotalSections  int
}

func (e *ResumeEmailPayload) Process() (*asynq.Task, error) {
	payload, err := json.Marshal(e)

	if err != nil {
		return nil, fmt.Errorf("marshal resume email payload: %w", err)
	}

	return asynq.NewTask(TypeResumeEmailDelivery, payload), nil
}

func (e *ResumeEmailPayload) ProcessorName() string {
	return "resume-email"
}

func HandleResumeEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload ResumeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("error decoding resume email payload: %w", err)
	}
	log.Printf("sending resume link to: %s", payload.Email)

	emailData := mail.Email{
		Subject:  fmt.Sprintf("Resume Your Survey: %s", payload.SurveyTitle),
		ToAddr:   payload.Email,
		Template: "resume_link",
		Vars: mail.ResumeLinkVars{
			SurveyTitle:    payload.SurveyTitle,
			ResumeLink:     payload.ResumeLink,
			CurrentSection: payload.CurrentSection,
			TotalSections:  payload.TotalSections,
		},
	}

	if err := emailData.SendTemplateEmail(); err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			// Misconfiguration is not retryable; drop the task.
			log.Println(err)
			return nil
		}
		err = fmt.Errorf("error sending resume email: %w", err)
		log.Println(err)
		return err
	}

	log.Printf("resume email sent to: %s", payload.Email)

	return nil
}
