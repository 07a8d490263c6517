package dto

type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}
