package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabled(t *testing.T) {
	n := Disabled()

	id, err := n.Notify(Notification{Title: "Break time", Urgency: UrgencyNormal})
	assert.NoError(t, err)
	assert.Zero(t, id)
	assert.NoError(t, n.Close(id))
}

func TestNew_NeverFails(t *testing.T) {
	n, err := New("StudyBreak", "io.github.studybreak")
	assert.NoError(t, err)
	assert.NotNil(t, n)
}
