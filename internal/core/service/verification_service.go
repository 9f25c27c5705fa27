package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/securevote/voting-wizard/internal/api/metrics"
	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
	"github.com/securevote/voting-wizard/internal/pkg/id"
)

// DemoOTP is the only code the simulated SMS gateway ever accepts.
const DemoOTP = "123456"

const (
	baseBlockNumber  = 18_000_000
	blockNumberRange = 1_000_000
	// bcrypt ignores everything past 72 bytes; longer inputs are rejected so a
	// demo password followed by garbage cannot log in.
	maxPasswordBytes = 72
)

// Latency holds the simulated duration of each backend call. Scan latencies
// are per progress tick.
type Latency struct {
	Login      time.Duration
	Identity   time.Duration
	SendOTP    time.Duration
	OTP        time.Duration
	FaceTick   time.Duration
	RetinaTick time.Duration
	Privacy    time.Duration
	CastVote   time.Duration
	Confirm    time.Duration
}

// DefaultLatency mirrors the timings of the booth hardware demo.
func DefaultLatency() Latency {
	return Latency{
		Login:      1000 * time.Millisecond,
		Identity:   2000 * time.Millisecond,
		SendOTP:    1000 * time.Millisecond,
		OTP:        1500 * time.Millisecond,
		FaceTick:   200 * time.Millisecond,
		RetinaTick: 600 * time.Millisecond,
		Privacy:    2000 * time.Millisecond,
		CastVote:   2000 * time.Millisecond,
		Confirm:    2000 * time.Millisecond,
	}
}

// Scale multiplies every latency by f. Zero or less disables all delays.
func (l Latency) Scale(f float64) Latency {
	if f <= 0 {
		return Latency{}
	}
	s := func(d time.Duration) time.Duration { return time.Duration(float64(d) * f) }
	return Latency{
		Login:      s(l.Login),
		Identity:   s(l.Identity),
		SendOTP:    s(l.SendOTP),
		OTP:        s(l.OTP),
		FaceTick:   s(l.FaceTick),
		RetinaTick: s(l.RetinaTick),
		Privacy:    s(l.Privacy),
		CastVote:   s(l.CastVote),
		Confirm:    s(l.Confirm),
	}
}

type demoAccount struct {
	hash []byte
	role string
}

// MockVerifier simulates every backend check of the voting booth.
type MockVerifier struct {
	latency  Latency
	accounts map[string]demoAccount
	log      zerolog.Logger
	now      func() time.Time
}

// NewMockVerifier hashes the demo accounts with the given bcrypt cost.
// A cost of zero uses bcrypt.DefaultCost.
func NewMockVerifier(latency Latency, bcryptCost int, log zerolog.Logger) (*MockVerifier, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	demo := []struct{ user, pass, role string }{
		{"admin", "admin123", domain.RoleAdmin},
		{"voter1", "vote123", domain.RoleVoter},
		{"demo", "demo123", domain.RoleVoter},
	}
	accounts := make(map[string]demoAccount, len(demo))
	for _, d := range demo {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.pass), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash demo account %s: %w", d.user, err)
		}
		accounts[d.user] = demoAccount{hash: hash, role: d.role}
	}
	return &MockVerifier{
		latency:  latency,
		accounts: accounts,
		log:      log.With().Str("component", "mock_verifier").Logger(),
		now:      time.Now,
	}, nil
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// call logs the request, waits, and records the elapsed time.
func (m *MockVerifier) call(ctx context.Context, op string, d time.Duration) (func(), error) {
	start := time.Now()
	m.log.Debug().Str("operation", op).Msg("request")
	if err := wait(ctx, d); err != nil {
		m.log.Warn().Str("operation", op).Err(err).Msg("request abandoned")
		return nil, err
	}
	return func() {
		elapsed := time.Since(start)
		metrics.MockLatency.WithLabelValues(op).Observe(elapsed.Seconds())
		m.log.Debug().Str("operation", op).Dur("elapsed", elapsed).Msg("response")
	}, nil
}

func (m *MockVerifier) VerifyLogin(ctx context.Context, username, password string) (string, bool, error) {
	done, err := m.call(ctx, "login", m.latency.Login)
	if err != nil {
		return "", false, err
	}
	defer done()

	acct, ok := m.accounts[username]
	if !ok || len(password) > maxPasswordBytes {
		return "", false, nil
	}
	if bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		return "", false, nil
	}
	return acct.role, true, nil
}

func (m *MockVerifier) VerifyIdentity(ctx context.Context, in ports.IdentityInput) error {
	done, err := m.call(ctx, "verify_identity", m.latency.Identity)
	if err != nil {
		return err
	}
	defer done()

	// Content and format are never checked; any non-empty field passes.
	if in.AadharNumber == "" && in.PANNumber == "" && in.VoterIDNumber == "" {
		return domain.ErrMissingIdentification
	}
	return nil
}

func (m *MockVerifier) SendOTP(ctx context.Context, phoneNumber string) error {
	if phoneNumber == "" {
		return domain.ErrMissingPhone
	}
	done, err := m.call(ctx, "send_otp", m.latency.SendOTP)
	if err != nil {
		return err
	}
	defer done()

	m.log.Info().Str("phone", maskPhone(phoneNumber)).Str("otp", DemoOTP).Msg("demo OTP sent")
	return nil
}

func (m *MockVerifier) VerifyOTP(ctx context.Context, otp string) error {
	done, err := m.call(ctx, "verify_otp", m.latency.OTP)
	if err != nil {
		return err
	}
	defer done()

	if otp != DemoOTP {
		return domain.ErrInvalidOTP
	}
	return nil
}

// ScanFace reports progress 0..100 in steps of 10, one tick apart.
func (m *MockVerifier) ScanFace(ctx context.Context, progress ports.ProgressFunc) (*ports.ScanResult, error) {
	stages := map[int]string{30: "DETECTING_LANDMARKS", 60: "ENCODING_FEATURES", 90: "MATCHING"}
	ticks, err := m.scan(ctx, "face_scan", 10, 100, m.latency.FaceTick, stages, progress)
	if err != nil {
		return nil, err
	}
	return &ports.ScanResult{
		ScanID:        id.NewPrefixed("face"),
		MatchScore:    0.9847,
		Confidence:    "HIGH",
		FeaturePoints: 68,
		Progress:      ticks,
	}, nil
}

// ScanRetina reports progress 0..90 in steps of 15 and a final 100.
func (m *MockVerifier) ScanRetina(ctx context.Context, progress ports.ProgressFunc) (*ports.ScanResult, error) {
	stages := map[int]string{45: "CAPTURING_PATTERN", 75: "ANALYZING_VESSELS"}
	ticks, err := m.scan(ctx, "retina_scan", 15, 100, m.latency.RetinaTick, stages, progress)
	if err != nil {
		return nil, err
	}
	return &ports.ScanResult{
		ScanID:        id.NewPrefixed("retina"),
		MatchScore:    0.9912,
		Confidence:    "VERY_HIGH",
		FeaturePoints: 247,
		Progress:      ticks,
	}, nil
}

// scan emits progress from 0 in increments of step up to limit. When the last
// increment falls short of limit, limit is reported as a final tick.
func (m *MockVerifier) scan(
	ctx context.Context,
	op string,
	step, limit int,
	tick time.Duration,
	stages map[int]string,
	progress ports.ProgressFunc,
) ([]int, error) {
	start := time.Now()
	m.log.Debug().Str("operation", op).Msg("request")

	var ticks []int
	report := func(p int) {
		ticks = append(ticks, p)
		if progress != nil {
			progress(p)
		}
		if stage, ok := stages[p]; ok {
			m.log.Debug().Str("operation", op).Int("progress", p).Str("status", stage).Msg("scan in progress")
		}
	}

	for p := 0; p <= limit; p += step {
		if err := wait(ctx, tick); err != nil {
			m.log.Warn().Str("operation", op).Int("progress", p).Err(err).Msg("scan abandoned")
			return nil, err
		}
		report(p)
	}
	if ticks[len(ticks)-1] != limit {
		report(limit)
	}

	elapsed := time.Since(start)
	metrics.MockLatency.WithLabelValues(op).Observe(elapsed.Seconds())
	m.log.Debug().Str("operation", op).Dur("elapsed", elapsed).Msg("response")
	return ticks, nil
}

func (m *MockVerifier) CheckPrivacy(ctx context.Context) (*ports.PrivacyResult, error) {
	done, err := m.call(ctx, "privacy_check", m.latency.Privacy)
	if err != nil {
		return nil, err
	}
	defer done()

	return &ports.PrivacyResult{PersonsDetected: 1, IsAlone: true, CameraAccess: true, Verified: true}, nil
}

// CastVote returns "VT" followed by the last eight digits of the current
// Unix millisecond timestamp.
func (m *MockVerifier) CastVote(ctx context.Context, candidateID string) (string, error) {
	done, err := m.call(ctx, "cast_vote", m.latency.CastVote)
	if err != nil {
		return "", err
	}
	defer done()

	voteID := fmt.Sprintf("VT%08d", m.now().UnixMilli()%100_000_000)
	m.log.Info().Str("vote_id", voteID).Str("candidate_id", candidateID).Msg("vote recorded")
	return voteID, nil
}

func (m *MockVerifier) ConfirmVote(ctx context.Context, voteID string) (*ports.VoteConfirmation, error) {
	done, err := m.call(ctx, "confirm_vote", m.latency.Confirm)
	if err != nil {
		return nil, err
	}
	defer done()

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("confirm vote: %w", err)
	}
	conf := &ports.VoteConfirmation{
		BlockchainHash: "0x" + hex.EncodeToString(buf),
		BlockNumber:    baseBlockNumber + mrand.Int64N(blockNumberRange),
	}
	m.log.Info().Str("vote_id", voteID).Int64("block", conf.BlockNumber).Msg("vote confirmed")
	return conf, nil
}

func maskPhone(p string) string {
	if len(p) <= 4 {
		return p
	}
	return strings.Repeat("*", len(p)-4) + p[len(p)-4:]
}
