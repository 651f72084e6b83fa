package delegate

import (
	"testing"
	"time"

	"github.com/festwork/gala/internal/config"
)

func TestNoRetry(t *testing.T) {
	var p RetryPolicy = NoRetry{}

	if _, again := p.Next(1); again {
		t.Error("NoRetry should never grant a retry")
	}
}

func TestFixedRetry(t *testing.T) {
	p := FixedRetry{Attempts: 2, Delay: 5 * time.Second}

	tests := []struct {
		attempt   int
		wantDelay time.Duration
		wantAgain bool
	}{
		{1, 5 * time.Second, true},
		{2, 5 * time.Second, true},
		{3, 0, false},
	}

	for _, tt := range tests {
		delay, again := p.Next(tt.attempt)
		if again != tt.wantAgain {
			t.Errorf("Next(%d) again = %t, want %t", tt.attempt, again, tt.wantAgain)
		}
		if again && delay != tt.wantDelay {
			t.Errorf("Next(%d) delay = %s, want %s", tt.attempt, delay, tt.wantDelay)
		}
	}
}

func TestBackoffRetry(t *testing.T) {
	p := BackoffRetry{Attempts: 4, Base: time.Second, Max: 5 * time.Second}

	tests := []struct {
		attempt   int
		wantDelay time.Duration
		wantAgain bool
	}{
		{1, time.Second, true},
		{2, 2 * time.Second, true},
		{3, 4 * time.Second, true},
		{4, 5 * time.Second, true}, // capped
		{5, 0, false},
	}

	for _, tt := range tests {
		delay, again := p.Next(tt.attempt)
		if again != tt.wantAgain {
			t.Errorf("Next(%d) again = %t, want %t", tt.attempt, again, tt.wantAgain)
		}
		if again && delay != tt.wantDelay {
			t.Errorf("Next(%d) delay = %s, want %s", tt.attempt, delay, tt.wantDelay)
		}
	}
}

func TestBackoffRetry_Uncapped(t *testing.T) {
	p := BackoffRetry{Attempts: 3, Base: time.Second}

	delay, again := p.Next(3)
	if !again || delay != 4*time.Second {
		t.Errorf("Next(3) = (%s, %t), want (4s, true)", delay, again)
	}
}

func TestPolicyFromConfig(t *testing.T) {
	tests := []struct {
		name   string
		policy string
		want   string
	}{
		{"none", "none", "delegate.NoRetry"},
		{"fixed", "fixed", "delegate.FixedRetry"},
		{"backoff", "backoff", "delegate.BackoffRetry"},
		{"unknown falls back", "aggressive", "delegate.NoRetry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DelegationConfig{
				RetryPolicy:   tt.policy,
				RetryAttempts: 2,
				RetryDelay:    time.Second,
			}
			p := PolicyFromConfig(cfg)

			switch tt.want {
			case "delegate.NoRetry":
				if _, ok := p.(NoRetry); !ok {
					t.Errorf("PolicyFromConfig(%q) = %T, want NoRetry", tt.policy, p)
				}
			case "delegate.FixedRetry":
				fixed, ok := p.(FixedRetry)
				if !ok {
					t.Fatalf("PolicyFromConfig(%q) = %T, want FixedRetry", tt.policy, p)
				}
				if fixed.Attempts != 2 || fixed.Delay != time.Second {
					t.Errorf("FixedRetry = %+v, want attempts 2 delay 1s", fixed)
				}
			case "delegate.BackoffRetry":
				backoff, ok := p.(BackoffRetry)
				if !ok {
					t.Fatalf("PolicyFromConfig(%q) = %T, want BackoffRetry", tt.policy, p)
				}
				if backoff.Attempts != 2 || backoff.Base != time.Second {
					t.Errorf("BackoffRetry = %+v, want attempts 2 base 1s", backoff)
				}
			}
		})
	}
}
