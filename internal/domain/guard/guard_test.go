package guard

import (
	"testing"

	"gatehouse/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

// TestEvaluate_FullMatrix covers every state x requested-page combination.
func TestEvaluate_FullMatrix(t *testing.T) {
	tests := []struct {
		name      string
		state     entity.SessionState
		requested Page
		allow     bool
		redirect  Page
	}{
		{"anonymous on auth", entity.StateAnonymous, PageAuth, true, 0},
		{"anonymous on profile-setup", entity.StateAnonymous, PageProfileSetup, false, PageAuth},
		{"anonymous on dashboard", entity.StateAnonymous, PageDashboard, false, PageAuth},
		{"authenticated on auth", entity.StateAuthenticated, PageAuth, false, PageProfileSetup},
		{"authenticated on profile-setup", entity.StateAuthenticated, PageProfileSetup, true, 0},
		{"authenticated on dashboard", entity.StateAuthenticated, PageDashboard, false, PageProfileSetup},
		{"complete on auth", entity.StateProfileComplete, PageAuth, false, PageDashboard},
		{"complete on profile-setup", entity.StateProfileComplete, PageProfileSetup, false, PageDashboard},
		{"complete on dashboard", entity.StateProfileComplete, PageDashboard, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Evaluate(tt.state, tt.requested)
			assert.Equal(t, tt.allow, decision.Allow)
			if !tt.allow {
				assert.Equal(t, tt.redirect, decision.Redirect)
			}
		})
	}
}

func TestHome(t *testing.T) {
	assert.Equal(t, PageAuth, Home(entity.StateAnonymous))
	assert.Equal(t, PageProfileSetup, Home(entity.StateAuthenticated))
	assert.Equal(t, PageDashboard, Home(entity.StateProfileComplete))
}
