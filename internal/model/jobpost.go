package model

import "time"

// JobPost represents a row in the `job_posts` table. The three list
// columns (requirements, responsibilities, skills) are stored as JSON
// arrays in TEXT columns and always decode to a non-nil slice; an
// absent column yields an empty slice, never null.
//
// Fields:
//  ID               – UUID primary key.
//  Title            – posting title.
//  Description      – full description text.
//  Company          – hiring company name.
//  Location         – posting location.
//  JobType          – e.g. "Full-time", "Contract".
//  Department       – owning department, defaults to "General".
//  Experience       – required experience text.
//  Salary           – offered salary.
//  Deadline         – application deadline.
//  IsActive         – whether the posting accepts applications.
//  Requirements     – ordered requirement lines.
//  Responsibilities – ordered responsibility lines.
//  Skills           – ordered skill names.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type JobPost struct {
    ID               string    `json:"id"`               // job_posts.id
    Title            string    `json:"title"`            // job_posts.title
    Description      string    `json:"description"`      // job_posts.description
    Company          string    `json:"company"`          // job_posts.company
    Location         string    `json:"location"`         // job_posts.location
    JobType          string    `json:"jobType"`          // job_posts.job_type
    Department       string    `json:"department"`       // job_posts.department
    Experience       string    `json:"experience"`       // job_posts.experience
    Salary           float64   `json:"salary"`           // job_posts.salary
    Deadline         time.Time `json:"deadline"`         // job_posts.deadline
    IsActive         bool      `json:"isActive"`         // job_posts.is_active
    Requirements     []string  `json:"requirements"`     // job_posts.requirements (JSON text)
    Responsibilities []string  `json:"responsibilities"` // job_posts.responsibilities (JSON text)
    Skills           []string  `json:"skills"`           // job_posts.skills (JSON text)
    CreatedAt        time.Time `json:"createdAt"`        // job_posts.created_at
    UpdatedAt        time.Time `json:"updatedAt"`        // job_posts.updated_at
}
