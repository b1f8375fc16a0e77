package mailer

import (
	"fmt"

	"github.com/smartrecruit/recruitment-backend/internal/model"
)

// StatusUpdateSubject is the subject line of a status notification.
// The preview endpoint renders through it too, so a preview always
// matches what a real send would carry.
func StatusUpdateSubject(status model.CandidateStatus) string {
	return fmt.Sprintf("Application Status Update - %s", status)
}

// statusMessage returns the status-specific paragraph appended to the
// default template. Unknown statuses fall back to the generic
// keep-your-profile message.
func statusMessage(status model.CandidateStatus, jobTitle string) string {
	switch status {
	case model.StatusAccepted:
		return "Congratulations! We are pleased to inform you that your application has been successful. Our HR team will contact you shortly with further details."
	case model.StatusRejected:
		return fmt.Sprintf("Thank you for taking the time to apply for the %s position at Smart Recruit. We truly appreciate the effort you put into your application and the interest you showed in joining our team.\n\nAfter careful consideration, we regret to inform you that we will not be moving forward with your application at this time.\n\nThis decision was not easy, as we received many strong applications. We encourage you to apply for future opportunities that match your skills and experience. We would be happy to consider your profile again.\n\nWe wish you all the best in your job search and future endeavors.", jobTitle)
	case model.StatusInterview:
		return "We are pleased to invite you for an interview. Our HR team will contact you shortly to schedule a convenient time.\n\nPlease be prepared to discuss your experience and qualifications in detail."
	case model.StatusCallForExam:
		return "You have been selected to take part in our assessment examination. We will send you the details about the exam schedule and requirements shortly.\n\nPlease ensure you review the relevant materials and come prepared."
	case model.StatusUnderReview:
		return "Your application is currently under review by our team. We appreciate your patience during this process.\n\nWe will notify you of any updates regarding your application status."
	default:
		return "We appreciate your interest in joining our team and thank you for taking the time to apply. We will keep your profile in our database for future opportunities."
	}
}

// StatusUpdateBody renders the default status-change email body for a
// candidate. A caller-supplied custom message replaces this template
// entirely rather than being merged into it.
func StatusUpdateBody(candidateName, jobTitle string, status model.CandidateStatus) string {
	return fmt.Sprintf(
		"Application Status Update\nDear %s,\n\nWe hope this email finds you well. We are writing to inform you about your application for the %s position.\n\nYour application status has been updated to: %s\n\n%s\n\nBest regards,\nSmart Recruit Team",
		candidateName, jobTitle, status, statusMessage(status, jobTitle))
}

// adminWelcomeBody renders the mail sent when a super-admin creates a
// new account. The plaintext temporary password is delivered exactly
// once, here.
func adminWelcomeBody(role, temporaryPassword string) string {
	return fmt.Sprintf(
		"Hello,\n\nYou have been added as an %s to the Smart Recruit admin panel.\n\nYour temporary password is: %s\n\nPlease log in and change your password as soon as possible.\n\nBest regards,\nSmart Recruit Team",
		role, temporaryPassword)
}

// temporaryPasswordBody renders the forgot-password mail carrying a
// freshly minted temporary password.
func temporaryPasswordBody(temporaryPassword string) string {
	return fmt.Sprintf(
		"Hello,\n\nYou have requested a password reset for your Smart Recruit account.\n\nYour temporary password is: %s\n\nThis password will expire in 24 hours. Please log in and change your password immediately.\n\nBest regards,\nSmart Recruit Team",
		temporaryPassword)
}
