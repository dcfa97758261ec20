package types

// Profile is the behavioral read of a traveler derived from their message
// history. It is recomputed on demand from user messages and never persisted;
// two calls over the same history produce the same profile.
type Profile struct {
	Archetype          string   `json:"traveler_archetype"`
	EnergySignature    string   `json:"energy_signature"`
	DecisionPattern    string   `json:"decision_pattern"`
	CommunicationStyle string   `json:"communication_style"`
	Motivations        []string `json:"core_motivations"`
	RiskTolerance      string   `json:"risk_tolerance"`
	LifeStage          string   `json:"life_stage"`
	CulturalStyle      string   `json:"cultural_style"`
}

// QualityMetrics scores a single user/assistant exchange. Progress and
// FollowThrough are measured against the session's quality memory as it stood
// before the exchange was folded in.
type QualityMetrics struct {
	Engagement      float64 `json:"engagement"`
	Relevance       float64 `json:"relevance"`
	Progress        float64 `json:"progress"`
	DepthQuality    float64 `json:"depth_quality"`
	FollowThrough   float64 `json:"follow_through"`
	Satisfaction    bool    `json:"satisfaction"`
	Dissatisfaction bool    `json:"dissatisfaction"`
}
