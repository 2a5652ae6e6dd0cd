package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"wedding-planner/internal/model"
	"wedding-planner/internal/plan"
	"wedding-planner/internal/repository"
	"wedding-planner/internal/seed"
)

// DigestService builds the human-readable daily summary of the plan for
// scheduled notifications.
type DigestService struct {
	seed     *seed.Document
	settings *repository.SettingsRepository
	statuses *repository.TaskStatusRepository
}

func NewDigestService(doc *seed.Document, settings *repository.SettingsRepository, statuses *repository.TaskStatusRepository) *DigestService {
	return &DigestService{seed: doc, settings: settings, statuses: statuses}
}

// DailySummary renders the digest as of now. It returns ErrNoWeddingDate
// until the start form has been submitted; callers skip the send in that
// case.
func (s *DigestService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	dateStr, ok, err := s.settings.Get(ctx, model.SettingWeddingDate)
	if err != nil {
		return "", err
	}
	if !ok || dateStr == "" {
		return "", ErrNoWeddingDate
	}
	weddingDate, err := time.Parse(isoDate, dateStr)
	if err != nil {
		return "", fmt.Errorf("stored wedding date %q: %w", dateStr, err)
	}

	rows, err := s.statuses.Get(ctx)
	if err != nil {
		return "", err
	}
	states := make(plan.StateMap, len(rows))
	for k, v := range rows {
		states[k] = plan.State{Done: v.Done, Note: v.Note}
	}

	tasks := plan.Schedule(s.seed.Templates, weddingDate)

	var overdue, upcoming []plan.Task
	for _, t := range tasks {
		st := plan.Classify(t, states, now)
		switch {
		case st.Overdue:
			overdue = append(overdue, t)
		case st.Upcoming && !st.Done:
			upcoming = append(upcoming, t)
		}
	}

	var builder strings.Builder
	builder.WriteString("💍 <b>Wedding plan digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s · %s\n\n", now.Format(isoDate), plan.Countdown(weddingDate, now)))

	builder.WriteString("⚠️ <b>Overdue</b>\n")
	if len(overdue) == 0 {
		builder.WriteString("— nothing overdue\n")
	} else {
		for _, t := range overdue {
			builder.WriteString(formatDigestTask(t))
		}
	}

	builder.WriteString("\n📆 <b>Next 30 days</b>\n")
	if len(upcoming) == 0 {
		builder.WriteString("— no tasks due in the next 30 days\n")
	} else {
		for _, t := range upcoming {
			builder.WriteString(formatDigestTask(t))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatDigestTask(t plan.Task) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("• %s — %s", t.Due.Format(isoDate), html.EscapeString(strings.TrimSpace(t.Title))))
	if t.Category != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(t.Category)))
	}
	sb.WriteByte('\n')
	return sb.String()
}
