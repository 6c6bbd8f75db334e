// Package mailer owns outbound email: the worker confirmation, the
// insurer batch submission, and the simulated transport used when SMTP
// credentials are absent.
package mailer

// Message is one outbound email. Attachment is a filesystem path;
// ArchiveTag names the artifact the simulated transport writes (the
// worker RUT for confirmations, the batch id for insurer sends).
type Message struct {
	To         string
	Subject    string
	HTMLBody   string
	Attachment string
	ArchiveTag string
}

// Mailer delivers a message. Implementations return nil only when the
// message was handed off (to the SMTP server or to the simulation
// directory).
type Mailer interface {
	Send(msg Message) error
}
