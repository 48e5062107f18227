package enrollment

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/17hemanthkumar/workingpicme-sub001/config"
	"github.com/17hemanthkumar/workingpicme-sub001/models"
	"github.com/17hemanthkumar/workingpicme-sub001/recognition"
	"github.com/17hemanthkumar/workingpicme-sub001/repository"
)

// State is the current stage of a guided enrollment session.
type State string

const (
	StateAwaitingCenter State = "awaiting_center"
	StateAwaitingLeft   State = "awaiting_left"
	StateAwaitingRight  State = "awaiting_right"
	StateComplete       State = "complete"
	StateAbandoned      State = "abandoned"
)

// stageOrder fixes the capture sequence. Each stage must be fully captured
// before the session advances.
var stageOrder = []recognition.AngleLabel{
	recognition.AngleCenter,
	recognition.AngleLeft,
	recognition.AngleRight,
}

// Feedback codes returned to the caller driving the camera UI.
const (
	CodeHoldSteady   = "hold_steady"
	CodeCaptured     = "captured"
	CodeTurnLeft     = "turn_left"
	CodeTurnRight    = "turn_right"
	CodePoseTooClose = "pose_too_close"
	CodeLowQuality   = "low_quality"
	CodeComplete     = "complete"
	CodeNotActive    = "not_active"
)

// Feedback describes the outcome of feeding one frame into the session. The
// caller relays Message to the subject and uses Code to drive overlays.
type Feedback struct {
	Code         string                 `json:"code"`
	Message      string                 `json:"message"`
	State        State                  `json:"state"`
	Stage        recognition.AngleLabel `json:"stage,omitempty"`
	Yaw          float64                `json:"yaw"`
	StableFrames int                    `json:"stable_frames"`
	NeededFrames int                    `json:"needed_frames"`
	PersonID     *uint                  `json:"person_id,omitempty"`
}

// ErrSessionNotActive is returned when frames arrive after the session has
// completed or been abandoned.
var ErrSessionNotActive = errors.New("enrollment session is not active")

// stageCapture is the accepted reference frame for one completed stage.
type stageCapture struct {
	embedding []float32
	quality   float64
	yaw       float64
}

// Session is a guided multi-angle enrollment. Frames flow in one at a time;
// the session validates pose and quality, requires a run of consecutive
// stable frames per stage, and commits all three captures atomically once the
// final stage is done. Nothing is persisted before that commit, so an
// abandoned session leaves no trace.
//
// A Session is driven by a single caller and is not safe for concurrent use.
type Session struct {
	store    repository.PersonStoreInterface
	settings config.MatchingSettings

	personID *uint // nil enrolls a new person
	force    bool

	state      State
	stageIdx   int
	captures   map[recognition.AngleLabel]stageCapture
	stableRun  int
	candidate  *stageCapture // best-quality frame within the current run
	resultID   uint
	resultSkip []string
}

// NewSession starts an enrollment. personID may be nil to enroll a new
// person; force passes through to the store's per-angle replacement rule.
func NewSession(store repository.PersonStoreInterface, settings config.MatchingSettings, personID *uint, force bool) *Session {
	return &Session{
		store:    store,
		settings: settings,
		personID: personID,
		force:    force,
		state:    StateAwaitingCenter,
		captures: make(map[recognition.AngleLabel]stageCapture),
	}
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// CurrentStage returns the angle label being captured, or empty when the
// session is no longer active.
func (s *Session) CurrentStage() recognition.AngleLabel {
	if s.state == StateComplete || s.state == StateAbandoned {
		return ""
	}
	return stageOrder[s.stageIdx]
}

// Result returns the committed person id and the angle labels whose stored
// encoding was kept over the new capture. Valid only once State is complete.
func (s *Session) Result() (uint, []string) {
	return s.resultID, s.resultSkip
}

// Abandon terminates the session without persisting anything.
func (s *Session) Abandon() {
	if s.state == StateComplete {
		return
	}
	s.state = StateAbandoned
	s.candidate = nil
	s.stableRun = 0
	log.Printf("enrollment: session abandoned at stage %d with %d capture(s)", s.stageIdx, len(s.captures))
}

// ProcessFrame feeds one analyzed observation into the session. Every
// disqualifying frame resets the stability counter for the current stage; the
// stage is accepted only after the configured number of consecutive
// qualifying frames, and the best-quality frame of that run becomes the
// stage's reference capture.
func (s *Session) ProcessFrame(obs recognition.FaceObservation) (Feedback, error) {
	if s.state == StateComplete || s.state == StateAbandoned {
		return s.feedback(CodeNotActive, "enrollment session is no longer active", obs.Yaw), ErrSessionNotActive
	}

	stage := stageOrder[s.stageIdx]
	target := s.settings.StageYawRanges[string(stage)]

	// separation is checked before the range so a frame still holding an
	// earlier pose reads as a duplicate, not as a turn hint
	if tooClose, other := s.poseTooClose(obs.Yaw); tooClose {
		s.resetRun()
		msg := fmt.Sprintf("turn further away from the %s pose already captured", other)
		return s.feedback(CodePoseTooClose, msg, obs.Yaw), nil
	}

	if obs.Yaw < target.Min || obs.Yaw > target.Max {
		s.resetRun()
		return s.feedback(s.directionCode(obs.Yaw, target), s.directionHint(stage, obs.Yaw, target), obs.Yaw), nil
	}

	if obs.Quality < s.settings.MinCaptureQuality {
		s.resetRun()
		return s.feedback(CodeLowQuality, "image quality too low, improve lighting and hold still", obs.Yaw), nil
	}

	s.stableRun++
	if s.candidate == nil || obs.Quality > s.candidate.quality {
		s.candidate = &stageCapture{
			embedding: obs.Embedding,
			quality:   obs.Quality,
			yaw:       obs.Yaw,
		}
	}

	if s.stableRun < s.settings.PoseStabilityFrames {
		msg := fmt.Sprintf("hold steady (%d/%d)", s.stableRun, s.settings.PoseStabilityFrames)
		return s.feedback(CodeHoldSteady, msg, obs.Yaw), nil
	}

	// stage accepted
	s.captures[stage] = *s.candidate
	log.Printf("enrollment: captured %s pose at yaw %.1f (quality %.2f)", stage, s.candidate.yaw, s.candidate.quality)
	s.resetRun()

	if s.stageIdx < len(stageOrder)-1 {
		s.stageIdx++
		next := stageOrder[s.stageIdx]
		msg := fmt.Sprintf("%s pose captured, now turn to the %s", stage, next)
		fb := s.feedback(CodeCaptured, msg, obs.Yaw)
		fb.Stage = next
		return fb, nil
	}

	if err := s.commit(); err != nil {
		// drop the final capture so the caller can redo the stage and
		// trigger another commit attempt
		delete(s.captures, stage)
		return s.feedback(CodeLowQuality, "failed to store enrollment", obs.Yaw), err
	}

	s.state = StateComplete
	fb := s.feedback(CodeComplete, "enrollment complete", obs.Yaw)
	fb.PersonID = &s.resultID
	return fb, nil
}

// commit writes all three captures through the store in one call.
func (s *Session) commit() error {
	now := time.Now().Unix()
	encodings := make([]models.AngleEncoding, 0, len(stageOrder))
	for _, stage := range stageOrder {
		capture, ok := s.captures[stage]
		if !ok {
			return repository.ErrIncompleteEncodingSet
		}
		enc := models.AngleEncoding{
			Angle:        string(stage),
			QualityScore: capture.quality,
			CaptureYaw:   capture.yaw,
			CreatedAt:    now,
		}
		enc.SetEmbedding(capture.embedding)
		encodings = append(encodings, enc)
	}

	id, skipped, err := s.store.UpsertPerson(s.personID, encodings, s.force)
	if err != nil {
		return fmt.Errorf("enrollment commit failed: %w", err)
	}
	s.resultID = id
	s.resultSkip = skipped
	log.Printf("enrollment: committed person %d", id)
	return nil
}

// poseTooClose reports whether yaw lies within the separation distance of any
// already accepted stage capture.
func (s *Session) poseTooClose(yaw float64) (bool, recognition.AngleLabel) {
	for _, stage := range stageOrder {
		capture, ok := s.captures[stage]
		if !ok {
			continue
		}
		if math.Abs(yaw-capture.yaw) < s.settings.PoseSeparation {
			return true, stage
		}
	}
	return false, ""
}

func (s *Session) resetRun() {
	s.stableRun = 0
	s.candidate = nil
}

// directionCode picks the turn direction moving yaw toward the target range.
// More negative yaw means the subject's left.
func (s *Session) directionCode(yaw float64, target config.YawRange) string {
	if yaw < target.Min {
		return CodeTurnRight
	}
	return CodeTurnLeft
}

func (s *Session) directionHint(stage recognition.AngleLabel, yaw float64, target config.YawRange) string {
	var direction string
	var degrees float64
	if yaw < target.Min {
		direction = "right"
		degrees = target.Min - yaw
	} else {
		direction = "left"
		degrees = yaw - target.Max
	}
	return fmt.Sprintf("for the %s pose, turn about %.0f degrees to the %s", stage, degrees, direction)
}

func (s *Session) feedback(code, message string, yaw float64) Feedback {
	fb := Feedback{
		Code:         code,
		Message:      message,
		State:        s.state,
		Yaw:          yaw,
		StableFrames: s.stableRun,
		NeededFrames: s.settings.PoseStabilityFrames,
	}
	if s.state != StateComplete && s.state != StateAbandoned {
		fb.Stage = stageOrder[s.stageIdx]
	}
	return fb
}
