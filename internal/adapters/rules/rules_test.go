package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/swingmap/internal/core/domain"
)

func TestDefault_Classify(t *testing.T) {
	rs := Default()

	tests := []struct {
		name       string
		content    string
		tier       domain.ApprovalTier
		compliance bool
	}{
		{"plain message is green", "Join us for a community picnic this Saturday", domain.TierGreen, false},
		{"fundraising is yellow with review", "Please donate today to keep our campaign going", domain.TierYellow, true},
		{"high risk wins over medium", "URGENT: our opponent is caught in a SCANDAL", domain.TierRed, false},
		{"flag without tier", "Every contribution counts", domain.TierGreen, true},
		{"html is stripped", "<p>Read about the <b>lawsuit</b></p>", domain.TierRed, false},
		{"no false match inside words", "A familiar face at the spaceport", domain.TierGreen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rs.Classify(tt.content)
			assert.Equal(t, tt.tier, got.Tier)
			assert.Equal(t, tt.compliance, got.RequiresComplianceReview)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		rs, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), rs)
	})

	t.Run("reads a yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		content := "rules:\n  - pattern: recall\n    tier: RED\n  - pattern: gift\n    flag: compliance_review\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		rs, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []domain.ApprovalRule{
			{Pattern: "recall", Tier: domain.TierRed},
			{Pattern: "gift", Flag: domain.FlagComplianceReview},
		}, rs.Rules)
		assert.Equal(t, domain.TierRed, rs.Classify("Sign the recall petition").Tier)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestRead_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":        "rules: [",
		"missing pattern": "rules:\n  - tier: RED\n",
		"unknown tier":    "rules:\n  - pattern: x\n    tier: ORANGE\n",
		"no tier or flag": "rules:\n  - pattern: x\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}
