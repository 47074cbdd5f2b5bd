package model

import "time"

// ContactSubmission is the audit copy of a contact-form message. The
// notification email is the primary channel; rows here are never updated.
type ContactSubmission struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	Email     string    `json:"email" gorm:"not null;size:255"`
	Phone     string    `json:"phone" gorm:"size:50"`
	Subject   string    `json:"subject" gorm:"size:255"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	ClientIP  string    `json:"client_ip" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
}

// CVSubmission pairs a stored PDF with its applicant metadata. The file
// and the row are kept consistent: no row without a file, and a failed
// row write deletes the file it pointed at.
type CVSubmission struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	PositionID    string    `json:"position_id" gorm:"index;size:64"`
	PositionTitle string    `json:"position_title" gorm:"size:255"`
	Name          string    `json:"name" gorm:"not null;size:100"`
	Email         string    `json:"email" gorm:"not null;index;size:255"`
	Phone         string    `json:"phone" gorm:"size:50"`
	Message       string    `json:"message" gorm:"type:text"`
	CVFileURL     string    `json:"cv_file_url" gorm:"not null"`
	CVFileName    string    `json:"cv_file_name" gorm:"not null;size:255"`
	CVFilePath    string    `json:"-" gorm:"not null"` // internal object path, needed for deletes
	Status        string    `json:"status" gorm:"index;size:20;default:pending"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
