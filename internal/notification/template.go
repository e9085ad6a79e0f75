package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var invitationTmpl = template.Must(template.ParseFS(templateFS, "templates/invitation.html"))

// Invitation is the data rendered into an invitation email.
type Invitation struct {
	EventID    string
	EventName  string
	Location   string
	Dates      string
	PlayerName string
	Email      string
	InvitedBy  string
	Link       string
}

// RenderInvitation builds the invitation email for inv.Email.
func RenderInvitation(inv Invitation) (Message, error) {
	if strings.TrimSpace(inv.PlayerName) == "" {
		inv.PlayerName = "there"
	}
	if strings.TrimSpace(inv.InvitedBy) == "" {
		inv.InvitedBy = "Your trip organizer"
	}
	subject := fmt.Sprintf("You're invited: %s", inv.EventName)

	var html bytes.Buffer
	err := invitationTmpl.Execute(&html, struct {
		Invitation
		Subject string
	}{inv, subject})
	if err != nil {
		return Message{}, fmt.Errorf("render invitation email: %w", err)
	}

	text := fmt.Sprintf("Hi %s,\n\n%s has invited you to %s.\n\nAccept your invitation: %s\n",
		inv.PlayerName, inv.InvitedBy, inv.EventName, inv.Link)

	return Message{
		To:      inv.Email,
		Subject: subject,
		HTML:    html.String(),
		Text:    text,
		EventID: inv.EventID,
	}, nil
}
