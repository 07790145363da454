package domain

import "time"

// LifecycleStage represents the current lifecycle classification of a trend
type LifecycleStage int

const (
	Emergence      LifecycleStage = 1
	ViralExplosion LifecycleStage = 2
	Plateau        LifecycleStage = 3
	Decline        LifecycleStage = 4
	Death          LifecycleStage = 5
)

func (s LifecycleStage) String() string {
	switch s {
	case Emergence:
		return "emergence"
	case ViralExplosion:
		return "viral_explosion"
	case Plateau:
		return "plateau"
	case Decline:
		return "decline"
	case Death:
		return "death"
	default:
		return "plateau"
	}
}

// ParseStage converts a stored stage name back to its enum value.
// Unrecognized names map to Plateau, the stable default.
func ParseStage(name string) LifecycleStage {
	switch name {
	case "emergence":
		return Emergence
	case "viral_explosion":
		return ViralExplosion
	case "decline":
		return Decline
	case "death":
		return Death
	default:
		return Plateau
	}
}

// DataQuality labels how many of the expected signal sources were available
type DataQuality int

const (
	QualityFull DataQuality = iota
	QualityPartial
	QualityMinimal
)

func (q DataQuality) String() string {
	switch q {
	case QualityFull:
		return "full"
	case QualityPartial:
		return "partial"
	default:
		return "minimal"
	}
}

// Downgrade lowers data quality by n levels, flooring at minimal.
func (q DataQuality) Downgrade(n int) DataQuality {
	lowered := int(q) + n
	if lowered > int(QualityMinimal) {
		return QualityMinimal
	}
	return DataQuality(lowered)
}

// AlertLevel is the discrete decline-risk band
type AlertLevel string

const (
	AlertGreen  AlertLevel = "green"
	AlertYellow AlertLevel = "yellow"
	AlertOrange AlertLevel = "orange"
	AlertRed    AlertLevel = "red"
)

// FeatureVector is the unified, typed view of all collaborator signals for one
// trend. Fields derived from a missing source are nil, never zero; downstream
// consumers must treat nil as insufficient signal.
type FeatureVector struct {
	InterestScore        *float64 `json:"interest_score"`         // 0-100
	InterestSlope        *float64 `json:"interest_slope"`         // points per day
	RollingMeanInterest  *float64 `json:"rolling_mean_interest"`  // trailing window mean
	PostVolume           *int     `json:"post_volume"`            // >= 0
	EngagementRate       *float64 `json:"engagement_rate"`        // engagements per post
	Velocity             *float64 `json:"velocity"`               // day-over-day post delta
	CommentCount         *int     `json:"comment_count"`          // >= 0
	DiscussionGrowthRate *float64 `json:"discussion_growth_rate"` // percent
	GrowthRate           *float64 `json:"growth_rate"`            // percent
	Momentum             *float64 `json:"momentum"`               // engagement growth percent
	DecaySignal          *float64 `json:"decay_signal"`           // 0-1
	EngagementSaturation *float64 `json:"engagement_saturation"`  // 0-1
}

// FieldCount is the number of fields a fully populated vector carries.
const FieldCount = 12

// NonNullCount returns how many fields carry an actual observation.
func (fv *FeatureVector) NonNullCount() int {
	n := 0
	for _, p := range []*float64{
		fv.InterestScore, fv.InterestSlope, fv.RollingMeanInterest,
		fv.EngagementRate, fv.Velocity, fv.DiscussionGrowthRate,
		fv.GrowthRate, fv.Momentum, fv.DecaySignal, fv.EngagementSaturation,
	} {
		if p != nil {
			n++
		}
	}
	if fv.PostVolume != nil {
		n++
	}
	if fv.CommentCount != nil {
		n++
	}
	return n
}

// ClassificationResult is the immutable outcome of one classification request
type ClassificationResult struct {
	TrendKey        string                 `json:"trend_key"`
	Stage           LifecycleStage         `json:"stage"`
	StageName       string                 `json:"stage_name"`
	BaseConfidence  float64                `json:"base_confidence"`  // within the configured band
	FinalConfidence float64                `json:"final_confidence"` // 0-1
	DaysInStage     int                    `json:"days_in_stage"`
	DataQuality     string                 `json:"data_quality"`
	Flags           []string               `json:"flags,omitempty"`
	RawSignals      map[string]interface{} `json:"raw_signals"` // audit trail
	Timestamp       time.Time              `json:"timestamp"`
}

// DeclineSignalBreakdown holds the four independent decline sub-scores, each 0-100
type DeclineSignalBreakdown struct {
	EngagementDrop  float64 `json:"engagement_drop"`
	VelocityDecline float64 `json:"velocity_decline"`
	CreatorDecline  float64 `json:"creator_decline"`
	QualityDecline  float64 `json:"quality_decline"`
}

// DeclineAssessment summarizes decline risk for one trend at one point in time
type DeclineAssessment struct {
	TrendKey         string                 `json:"trend_key"`
	DeclineRiskScore float64                `json:"decline_risk_score"` // 0-100
	AlertLevel       AlertLevel             `json:"alert_level"`
	SignalBreakdown  DeclineSignalBreakdown `json:"signal_breakdown"`
	Confidence       string                 `json:"confidence"`   // qualitative label
	DataQuality      string                 `json:"data_quality"` // qualitative label
	TimeToDie        *float64               `json:"time_to_die"`  // days, nil when not declining
	Timestamp        time.Time              `json:"timestamp"`
}

// StageHistoryRecord is the single piece of state that survives across
// requests. It is owned by the persistence collaborator and mutated exactly
// once per request through an atomic upsert.
type StageHistoryRecord struct {
	TrendKey    string         `db:"trend_key" json:"trend_key"`
	Stage       LifecycleStage `db:"stage" json:"stage"`
	DaysInStage int            `db:"days_in_stage" json:"days_in_stage"`
	LastUpdated time.Time      `db:"last_updated" json:"last_updated"`
}
