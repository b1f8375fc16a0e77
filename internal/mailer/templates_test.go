package mailer

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/smartrecruit/recruitment-backend/internal/model"
)

func TestStatusMessagePerStatus(t *testing.T) {
    cases := []struct {
        status model.CandidateStatus
        want   string
    }{
        {model.StatusAccepted, "Congratulations"},
        {model.StatusRejected, "will not be moving forward"},
        {model.StatusInterview, "invite you for an interview"},
        {model.StatusCallForExam, "assessment examination"},
        {model.StatusUnderReview, "currently under review"},
        {model.StatusReceived, "keep your profile"},
    }
    for _, tc := range cases {
        t.Run(string(tc.status), func(t *testing.T) {
            assert.Contains(t, statusMessage(tc.status, "Backend Engineer"), tc.want)
        })
    }
}

func TestStatusMessageRejectedMentionsJobTitle(t *testing.T) {
    msg := statusMessage(model.StatusRejected, "Data Analyst")
    assert.Contains(t, msg, "Data Analyst")
}

func TestStatusUpdateSubjectCarriesStatus(t *testing.T) {
    assert.Equal(t, "Application Status Update - Interview",
        StatusUpdateSubject(model.StatusInterview))
    assert.Equal(t, "Application Status Update - Accepted",
        StatusUpdateSubject(model.StatusAccepted))
}

func TestStatusUpdateBody(t *testing.T) {
    body := StatusUpdateBody("Abebe Kebede", "Backend Engineer", model.StatusInterview)
    assert.Contains(t, body, "Dear Abebe Kebede")
    assert.Contains(t, body, "Backend Engineer position")
    assert.Contains(t, body, "updated to: Interview")
    assert.Contains(t, body, "Smart Recruit Team")
}

func TestAdminWelcomeBodyCarriesTemporaryPassword(t *testing.T) {
    body := adminWelcomeBody("admin", "SRabc12345")
    assert.Contains(t, body, "SRabc12345")
    assert.Contains(t, body, "change your password")
}

func TestTemporaryPasswordBodyMentionsExpiry(t *testing.T) {
    body := temporaryPasswordBody("SRabc12345")
    assert.Contains(t, body, "SRabc12345")
    assert.Contains(t, body, "24 hours")
}
