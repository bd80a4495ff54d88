package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/calewis/retell-api/internal/domain"
)

var (
	fixedTime      = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fixedSessionID = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
)

func fixedScorer() *Scorer {
	return NewScorer(
		nil,
		func() time.Time { return fixedTime },
		func() uuid.UUID { return fixedSessionID },
	)
}

func testProfile() *domain.NormativeProfile {
	return &domain.NormativeProfile{
		ID:                  "adults-18-59",
		Label:               "Adults 18-59",
		Language:            domain.LanguagePortuguese,
		MeanWPM:             180,
		SDWPM:               40,
		MeanCoverage:        65,
		SDCoverage:          15,
		ReliabilityCoverage: 0.8,
	}
}

func buildTest(t *testing.T, keypointTexts []string) *domain.TestInstance {
	t.Helper()

	keypoints := make([]domain.Keypoint, 0, len(keypointTexts))
	for i, text := range keypointTexts {
		keypoints = append(keypoints, domain.Keypoint{
			ID:     i + 1,
			Text:   text,
			Tokens: TokenizeKeypoint(text, domain.LanguagePortuguese),
		})
	}

	test, err := domain.NewTestInstance(
		uuid.New(),
		domain.LanguagePortuguese,
		"memória",
		domain.ComplexityNeutral,
		strings.Repeat("palavra ", 120),
		keypoints,
		120,
		60,
		"adults-18-59",
	)
	if err != nil {
		t.Fatalf("failed to build test instance: %v", err)
	}
	return test
}

func TestScoreSessionWithProfile(t *testing.T) {
	t.Parallel()

	test := buildTest(t, []string{
		"O hipocampo consolida memórias durante o sono.",
		"A repetição espaçada fortalece a retenção.",
		"Dormir pouco prejudica a atenção.",
		"O exercício físico melhora a plasticidade.",
	})

	// Recalls keypoints 1 and 2 with strong anchors, misses 3 and 4.
	recall := "Lembro que o hipocampo consolida as memórias, e que a repetição espaçada ajuda na retenção."

	scorer := fixedScorer()
	session := scorer.ScoreSession(test, recall, 40, ResolvedProfile(testProfile()), nil)

	if session.SessionID != fixedSessionID {
		t.Errorf("expected injected session ID, got %s", session.SessionID)
	}
	if !session.CreatedAt.Equal(fixedTime) {
		t.Errorf("expected injected timestamp, got %v", session.CreatedAt)
	}
	if session.TestID != test.ID || session.UserID != test.UserID {
		t.Error("session must reference its test and user")
	}
	if session.RecallText != recall {
		t.Error("recall text must be kept verbatim for audit")
	}

	if len(session.KeypointResults) != len(test.Keypoints) {
		t.Fatalf("expected %d keypoint results, got %d", len(test.Keypoints), len(session.KeypointResults))
	}
	for i, kr := range session.KeypointResults {
		if kr.KeypointID != test.Keypoints[i].ID {
			t.Errorf("keypoint result %d out of order: got ID %d", i, kr.KeypointID)
		}
		if kr.Text != test.Keypoints[i].Text {
			t.Errorf("keypoint result %d must copy the keypoint text", i)
		}
	}

	if !session.KeypointResults[0].Hit || !session.KeypointResults[1].Hit {
		t.Error("keypoints 1 and 2 should hit")
	}
	if session.KeypointResults[2].Hit || session.KeypointResults[3].Hit {
		t.Error("keypoints 3 and 4 should miss")
	}

	if session.CoveragePct != 50.0 {
		t.Errorf("expected coverage 50.0, got %v", session.CoveragePct)
	}

	// z_coverage = (50-65)/15 = -1.0 exactly, still within expected range.
	if session.ZCoverage != -1.0 {
		t.Errorf("expected z_coverage -1.0, got %v", session.ZCoverage)
	}
	if session.QualitativeLabel != domain.LabelWithinExpectedRange {
		t.Errorf("expected label %q, got %q", domain.LabelWithinExpectedRange, session.QualitativeLabel)
	}

	// 120 words in 40s: wpm = 180, z_wpm = 0.
	if session.WPMEffective != 180 {
		t.Errorf("expected 180 WPM, got %d", session.WPMEffective)
	}
	if session.ZWPM == nil || *session.ZWPM != 0 {
		t.Errorf("expected z_wpm 0, got %v", session.ZWPM)
	}

	if session.RCICoverage != nil {
		t.Error("RCI must be absent without a previous session")
	}

	if err := session.Validate(); err != nil {
		t.Errorf("assembled session should be valid: %v", err)
	}
}

func TestScoreSessionMissingProfile(t *testing.T) {
	t.Parallel()

	test := buildTest(t, []string{
		"O hipocampo consolida memórias durante o sono.",
		"A repetição espaçada fortalece a retenção.",
	})
	previous := &domain.SessionResult{CoveragePct: 50}

	session := fixedScorer().ScoreSession(test, "hipocampo consolida memórias", 30, MissingProfile(), previous)

	if session.ZCoverage != 0 {
		t.Errorf("expected z_coverage 0 without a profile, got %v", session.ZCoverage)
	}
	if session.ZWPM != nil {
		t.Error("z_wpm must be absent without a profile")
	}
	if session.RCICoverage != nil {
		t.Error("RCI must be absent without a profile, even with a previous session")
	}
	if session.QualitativeLabel != domain.LabelNormativeUnavailable {
		t.Errorf("expected label %q, got %q", domain.LabelNormativeUnavailable, session.QualitativeLabel)
	}
}

func TestScoreSessionReliableChange(t *testing.T) {
	t.Parallel()

	test := buildTest(t, []string{
		"O hipocampo consolida memórias durante o sono.",
		"A repetição espaçada fortalece a retenção.",
	})

	// Both keypoints recalled: coverage 100; previous 50.
	recall := "hipocampo consolida memórias, repetição espaçada fortalece retenção"
	previous := &domain.SessionResult{CoveragePct: 50}

	session := fixedScorer().ScoreSession(test, recall, 30, ResolvedProfile(testProfile()), previous)

	if session.CoveragePct != 100.0 {
		t.Fatalf("expected full coverage, got %v", session.CoveragePct)
	}
	if session.RCICoverage == nil {
		t.Fatal("expected RCI with profile and previous session")
	}

	// s_diff = 15*sqrt(0.4) = 9.4868...; (100-50)/s_diff = 5.2705 -> 5.27
	if *session.RCICoverage != 5.27 {
		t.Errorf("expected RCI 5.27, got %v", *session.RCICoverage)
	}
}

func TestScoreSessionEmptyRecall(t *testing.T) {
	t.Parallel()

	test := buildTest(t, []string{
		"O hipocampo consolida memórias durante o sono.",
		"A repetição espaçada fortalece a retenção.",
	})

	session := fixedScorer().ScoreSession(test, "", 30, ResolvedProfile(testProfile()), nil)

	if session.CoveragePct != 0 {
		t.Errorf("empty recall should score zero coverage, got %v", session.CoveragePct)
	}
	for _, kr := range session.KeypointResults {
		if kr.Hit {
			t.Error("no keypoint should hit on empty recall")
		}
		if len(kr.MatchedTokens) != 0 {
			t.Error("no tokens should match on empty recall")
		}
	}

	// z_coverage = (0-65)/15 = -4.33, below expected range.
	if session.QualitativeLabel != domain.LabelBelowExpectedRange {
		t.Errorf("expected label %q, got %q", domain.LabelBelowExpectedRange, session.QualitativeLabel)
	}
}

func TestScoreSessionDeterministic(t *testing.T) {
	t.Parallel()

	test := buildTest(t, []string{
		"O hipocampo consolida memórias durante o sono.",
		"A repetição espaçada fortalece a retenção.",
	})
	recall := "o hipocampo consolida memórias"

	a := fixedScorer().ScoreSession(test, recall, 30, ResolvedProfile(testProfile()), nil)
	b := fixedScorer().ScoreSession(test, recall, 30, ResolvedProfile(testProfile()), nil)

	if a.SessionID != b.SessionID || a.CoveragePct != b.CoveragePct ||
		a.ZCoverage != b.ZCoverage || a.WPMEffective != b.WPMEffective ||
		!a.CreatedAt.Equal(b.CreatedAt) {
		t.Error("scoring with a fixed clock and ID generator must be fully reproducible")
	}
}
