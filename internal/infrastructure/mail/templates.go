package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// InvitationData fills the invitation email
type InvitationData struct {
	InviterName string
	TeamName    string
	Role        string
	AcceptURL   string
	ExpiresOn   string
}

var invitationTemplate = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2937;">
  <h2>You're invited to join {{.TeamName}}</h2>
  <p>{{.InviterName}} invited you to join <strong>{{.TeamName}}</strong> on TaskFlow as {{.Role}}.</p>
  <p><a href="{{.AcceptURL}}" style="background:#2563eb;color:#fff;padding:10px 16px;border-radius:6px;text-decoration:none;">Accept invitation</a></p>
  <p>Or paste this link into your browser:<br>{{.AcceptURL}}</p>
  <p style="color:#6b7280;font-size:12px;">This invitation expires on {{.ExpiresOn}}.</p>
</body>
</html>`))

// InvitationMessage renders the invitation email for to
func InvitationMessage(to string, data InvitationData) (Message, error) {
	var buf bytes.Buffer
	if err := invitationTemplate.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render invitation email: %w", err)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("You're invited to join %s on TaskFlow", data.TeamName),
		HTML:    buf.String(),
		Text: fmt.Sprintf("%s invited you to join %s on TaskFlow. Accept the invitation: %s",
			data.InviterName, data.TeamName, data.AcceptURL),
	}, nil
}
