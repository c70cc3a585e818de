package services

import (
	"fmt"
	"log"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/storage"
)

// NotificationService fans out in-app notification rows and, where a mail
// address is known, email. Failures are logged and swallowed: notifying is
// never allowed to fail the triggering request.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (ns *NotificationService) notify(userID uint, weddingID *uint, kind, title, body string) {
	n := models.Notification{
		UserID:    userID,
		WeddingID: weddingID,
		Kind:      kind,
		Title:     title,
		Body:      body,
	}
	if err := storage.DB.Create(&n).Error; err != nil {
		log.Printf("failed to store notification for user %d: %v", userID, err)
	}
}

// NotifyMediaModerated tells the uploader their photo or video was approved
// or rejected.
func (ns *NotificationService) NotifyMediaModerated(media *models.Media, approved bool, weddingName string) {
	kind := models.NotificationMediaApproved
	title := "Your upload was approved"
	body := fmt.Sprintf("Your %s is now visible in the %s gallery.", media.Type, weddingName)
	if !approved {
		kind = models.NotificationMediaRejected
		title = "Your upload was removed"
		body = fmt.Sprintf("Your %s did not make it into the %s gallery.", media.Type, weddingName)
	}
	ns.notify(media.UploadedBy, &media.WeddingID, kind, title, body)
}

// NotifyApplicationReviewed emails the applicant and, when the applicant
// already has an account, stores an in-app notification too.
func (ns *NotificationService) NotifyApplicationReviewed(app *models.SuperAdminApplication) {
	subject := "Your application was reviewed"
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your application for <strong>%s</strong> has been <strong>%s</strong>.</p>`,
		app.ContactPerson, app.BusinessName, app.Status,
	)
	if app.Status == models.ApplicationApproved {
		html += `<p>You can now sign in and create your wedding workspace.</p>`
	}

	if _, err := SendMail(app.Email, subject, html); err != nil {
		log.Printf("failed to send application review mail to %s: %v", app.Email, err)
	}

	var user models.User
	if err := storage.DB.Where("email = ?", app.Email).First(&user).Error; err == nil {
		ns.notify(user.ID, nil, models.NotificationApplicationReviewed,
			subject, fmt.Sprintf("Application for %s: %s", app.BusinessName, app.Status))
	}
}

// NotifyAdminAdded tells a member they were promoted to wedding admin.
func (ns *NotificationService) NotifyAdminAdded(userID uint, wedding *models.Wedding) {
	ns.notify(userID, &wedding.ID, models.NotificationAdminAdded,
		"You are now an admin",
		fmt.Sprintf("You can now moderate uploads for %s.", wedding.Name))
}
