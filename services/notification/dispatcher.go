package notificationservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"unilance/realtime"
	applicationservice "unilance/services/application"
	profileservice "unilance/services/profile"
	projectservice "unilance/services/project"
)

const dispatchTimeout = 10 * time.Second

// Dispatcher translates committed application changes into notifications.
// It is the realtime client's sink; the sink runs on the read loop and must
// not block, so each event is handed to its own goroutine.
type Dispatcher struct {
	service  NotificationService
	projects projectservice.ProjectRepository
	profiles profileservice.ProfileRepository
	logger   *zap.Logger
}

func NewDispatcher(
	service NotificationService,
	projects projectservice.ProjectRepository,
	profiles profileservice.ProfileRepository,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		service:  service,
		projects: projects,
		profiles: profiles,
		logger:   logger,
	}
}

// Subscriptions names the change feeds the dispatcher consumes.
func (d *Dispatcher) Subscriptions() []realtime.Subscription {
	return []realtime.Subscription{
		{Schema: "public", Table: "applications", Event: realtime.EventAll},
	}
}

func (d *Dispatcher) HandleChange(event realtime.ChangeEvent) {
	if event.Table != "applications" {
		return
	}
	go d.dispatch(event)
}

func (d *Dispatcher) dispatch(event realtime.ChangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	var err error
	switch event.Action {
	case realtime.ActionInsert:
		err = d.applicationReceived(ctx, event)
	case realtime.ActionUpdate:
		err = d.applicationDecided(ctx, event)
	default:
		return
	}
	if err != nil {
		d.logger.Error("failed to dispatch application event",
			zap.String("action", event.Action), zap.Error(err))
	}
}

// applicationReceived tells the project owner about a fresh application.
func (d *Dispatcher) applicationReceived(ctx context.Context, event realtime.ChangeEvent) error {
	applicationID, err := uuidField(event.Record, "id")
	if err != nil {
		return err
	}
	projectID, err := uuidField(event.Record, "project_id")
	if err != nil {
		return err
	}
	studentID, err := uuidField(event.Record, "student_id")
	if err != nil {
		return err
	}

	project, err := d.projects.GetByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to resolve project %s: %w", projectID, err)
	}
	studentName := d.displayName(ctx, studentID)

	_, err = d.service.Notify(ctx, project.OwnerID, KindApplicationReceived,
		"New application",
		fmt.Sprintf("%s applied to %q", studentName, project.Title),
		map[string]string{
			"application_id": applicationID.String(),
			"project_id":     projectID.String(),
			"project_title":  project.Title,
			"student_name":   studentName,
		})
	return err
}

// applicationDecided tells the student about an accept or decline.
func (d *Dispatcher) applicationDecided(ctx context.Context, event realtime.ChangeEvent) error {
	status := stringField(event.Record, "status")
	if status != applicationservice.StatusAccepted && status != applicationservice.StatusDeclined {
		return nil
	}
	// The old record carries status only under REPLICA IDENTITY FULL. When
	// it is there, an unchanged status means the update touched other
	// columns and nobody needs to hear about it.
	if old := stringField(event.OldRecord, "status"); old == status {
		return nil
	}

	applicationID, err := uuidField(event.Record, "id")
	if err != nil {
		return err
	}
	projectID, err := uuidField(event.Record, "project_id")
	if err != nil {
		return err
	}
	studentID, err := uuidField(event.Record, "student_id")
	if err != nil {
		return err
	}

	var projectTitle string
	project, err := d.projects.GetByID(ctx, projectID)
	switch {
	case err == nil:
		projectTitle = project.Title
	case errors.Is(err, sql.ErrNoRows) && status == applicationservice.StatusDeclined:
		// Archiving a project declines its pending applications in the same
		// transaction, so the project row is already hidden when this event
		// lands. The student still gets told.
	default:
		return fmt.Errorf("failed to resolve project %s: %w", projectID, err)
	}

	kind := KindApplicationAccepted
	title := "Application accepted"
	body := fmt.Sprintf("Your application for %q was accepted", projectTitle)
	if status == applicationservice.StatusDeclined {
		kind = KindApplicationDeclined
		title = "Application declined"
		body = fmt.Sprintf("Your application for %q was declined", projectTitle)
		if projectTitle == "" {
			body = "Your application was declined because the project was withdrawn"
		}
	}

	_, err = d.service.Notify(ctx, studentID, kind, title, body,
		map[string]string{
			"application_id": applicationID.String(),
			"project_id":     projectID.String(),
			"project_title":  projectTitle,
			"student_name":   d.displayName(ctx, studentID),
		})
	return err
}

func (d *Dispatcher) displayName(ctx context.Context, userID uuid.UUID) string {
	profile, err := d.profiles.GetByID(ctx, userID)
	if err != nil {
		d.logger.Warn("failed to resolve display name",
			zap.String("user_id", userID.String()), zap.Error(err))
		return "A student"
	}
	return profile.DisplayName
}

func stringField(record map[string]interface{}, key string) string {
	if record == nil {
		return ""
	}
	s, _ := record[key].(string)
	return s
}

func uuidField(record map[string]interface{}, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(stringField(record, key))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse %q from change record: %w", key, err)
	}
	return id, nil
}
