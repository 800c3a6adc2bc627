package service

import "fmt"

// MessageFormatter composes human-readable notification messages.
type MessageFormatter struct{}

func NewMessageFormatter() *MessageFormatter {
	return &MessageFormatter{}
}

func (f *MessageFormatter) ApplyParticipation(nickname, title string) string {
	return fmt.Sprintf("%s applied to join \"%s\".", nickname, title)
}

func (f *MessageFormatter) ApproveParticipation(title string) string {
	return fmt.Sprintf("Your application for \"%s\" was approved.", title)
}

func (f *MessageFormatter) RejectParticipation(title string) string {
	return fmt.Sprintf("Your application for \"%s\" was rejected.", title)
}

func (f *MessageFormatter) CancelParticipation(nickname, title string) string {
	return fmt.Sprintf("%s canceled their application for \"%s\".", nickname, title)
}

func (f *MessageFormatter) ReviewRequest(title string) string {
	return fmt.Sprintf("\"%s\" has wrapped up. Leave a review for the other participants.", title)
}

func (f *MessageFormatter) WriteComment(nickname, title string) string {
	return fmt.Sprintf("%s commented on \"%s\".", nickname, title)
}

func (f *MessageFormatter) ReplyComment(nickname, title string) string {
	return fmt.Sprintf("%s replied to your comment on \"%s\".", nickname, title)
}
