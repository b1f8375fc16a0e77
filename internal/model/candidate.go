package model

import "time"

// CandidateStatus enumerates the states an application can hold. The
// values are stored verbatim in the `candidates.status` column and are
// also used to pick the notification template when a status changes.
type CandidateStatus string

const (
    StatusReceived    CandidateStatus = "Received"
    StatusUnderReview CandidateStatus = "Under Review"
    StatusInterview   CandidateStatus = "Interview"
    StatusCallForExam CandidateStatus = "Call for exam"
    StatusRejected    CandidateStatus = "Rejected"
    StatusAccepted    CandidateStatus = "Accepted"
)

// ValidStatus reports whether s is one of the known application statuses.
func ValidStatus(s CandidateStatus) bool {
    switch s {
    case StatusReceived, StatusUnderReview, StatusInterview,
        StatusCallForExam, StatusRejected, StatusAccepted:
        return true
    }
    return false
}

// Candidate represents a candidate's application for a specific job as
// stored in the `candidates` table. At most one application may exist
// per (email, job_title) pair; the unique key on those columns is the
// authority for that invariant. Either ResumePath or Link must be set.
//
// Fields:
//  ID          – UUID primary key, generated on submission.
//  FullName    – applicant full name.
//  Email       – applicant email address.
//  PhoneNumber – phone in "+251XXXXXXXXX" format.
//  JobTitle    – title of the posting applied to.
//  Department  – department of the posting.
//  Location    – posting location.
//  GPA         – grade point average, bounded to [0.5, 4.0].
//  Experience  – free-text experience summary.
//  Skills      – free-text skills summary.
//  CoverLetter – cover letter body.
//  ResumePath  – server path of the uploaded resume (empty when Link used).
//  Link        – external profile/resume URL (empty when ResumePath used).
//  Status      – workflow status, defaults to Received.
//  AppliedAt   – submission timestamp.
//  UpdatedAt   – last modification timestamp.
type Candidate struct {
    ID          string          `json:"id"`          // candidates.id
    FullName    string          `json:"fullname"`    // candidates.fullname
    Email       string          `json:"email"`       // candidates.email
    PhoneNumber string          `json:"phoneNumber"` // candidates.phone_number
    JobTitle    string          `json:"jobTitle"`    // candidates.job_title
    Department  string          `json:"department"`  // candidates.department
    Location    string          `json:"location"`    // candidates.location
    GPA         float64         `json:"gpa"`         // candidates.gpa
    Experience  string          `json:"experience"`  // candidates.experience
    Skills      string          `json:"skills"`      // candidates.skills
    CoverLetter string          `json:"coverletter"` // candidates.cover_letter
    ResumePath  string          `json:"resumepath"`  // candidates.resume_path (nullable)
    Link        string          `json:"link"`        // candidates.link (nullable)
    Status      CandidateStatus `json:"status"`      // candidates.status
    AppliedAt   time.Time       `json:"appliedDate"` // candidates.applied_at
    UpdatedAt   time.Time       `json:"updatedAt"`   // candidates.updated_at
}

// CandidateStats is the aggregate snapshot returned by the stats
// endpoint. Counts may be slightly stale under concurrent writes; no
// additional synchronization is performed beyond the store's reads.
type CandidateStats struct {
    Total        int            `json:"totalCandidates"`
    ByStatus     map[string]int `json:"byStatus"`
    ByDepartment map[string]int `json:"byDepartment"`
}
