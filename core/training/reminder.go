package training

import (
	"context"
	"fmt"
	"net/mail"
	"sync"

	"github.com/google/uuid"

	"github.com/capacitahr/capacita/core"
)

type (
	// ReminderRecipient is one roster entry selected for a reminder email.
	ReminderRecipient struct {
		RecordID int    `json:"training_record_id" validate:"required"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}

	ReminderBatch struct {
		CourseID   int                 `json:"course_id" validate:"required"`
		CourseName string              `json:"course_name"`
		Recipients []ReminderRecipient `json:"employees" validate:"required,min=1,dive"`
	}

	// ReminderSummary is the normal outcome of a bulk dispatch; partial
	// failure is carried in the counts, not raised as an error.
	ReminderSummary struct {
		TotalEmployees        int `json:"total_employees"`
		EmployeesWithoutEmail int `json:"employees_without_email"`
		EmailsSent            int `json:"emails_sent"`
		EmailsFailed          int `json:"emails_failed"`
	}

	reminderData struct {
		Name       string
		CourseName string
	}
)

// SendReminders dispatches one reminder email per recipient with a usable
// address, all concurrently, and updates the ledger for each successful send.
// One recipient's failure never cancels the others; each send gets its own
// timeout and a timeout counts as a failure.
func (svc *Service) SendReminders(ctx context.Context, batch ReminderBatch) ReminderSummary {
	batchID := uuid.New().String()
	summary := ReminderSummary{TotalEmployees: len(batch.Recipients)}

	var toSend []ReminderRecipient
	for _, rcp := range batch.Recipients {
		if core.CleanString(rcp.Email) == "" {
			summary.EmployeesWithoutEmail++
			continue
		}
		toSend = append(toSend, rcp)
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, rcp := range toSend {
		rcp := rcp
		wg.Add(1)
		go func() {
			defer wg.Done()

			sendCtx, cancel := context.WithTimeout(ctx, svc.conf.Reminder.SendTimeout)
			defer cancel()

			msg := &core.EmailMessage{
				To:           []mail.Address{{Name: rcp.Name, Address: rcp.Email}},
				Subject:      fmt.Sprintf("Reminder: %s training is pending", batch.CourseName),
				TemplateName: "training_reminder",
				TemplateData: reminderData{Name: rcp.Name, CourseName: batch.CourseName},
			}
			if err := svc.mailSvc.SendMessage(sendCtx, msg); err != nil {
				svc.logger.Error(
					fmt.Sprintf("reminder batch %s: sending to %s (record %d): %v", batchID, rcp.Email, rcp.RecordID, err),
					err,
				)
				mu.Lock()
				summary.EmailsFailed++
				mu.Unlock()
				return
			}

			// the email went out; a ledger failure must not turn the send
			// into a failure, only get logged
			if err := svc.repo.MarkReminderSent(ctx, rcp.RecordID); err != nil {
				svc.logger.Error(
					fmt.Sprintf("reminder batch %s: updating ledger for record %d: %v", batchID, rcp.RecordID, err),
					err,
				)
			}
			mu.Lock()
			summary.EmailsSent++
			mu.Unlock()
		}()
	}
	wg.Wait()

	svc.logger.Info(fmt.Sprintf(
		"reminder batch %s (course %d): %d requested, %d without email, %d sent, %d failed",
		batchID, batch.CourseID, summary.TotalEmployees, summary.EmployeesWithoutEmail,
		summary.EmailsSent, summary.EmailsFailed,
	))
	return summary
}
