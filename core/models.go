package core

// Segment is one contiguous span of transcribed speech. Index is assigned
// once at transcription time and is never renumbered; every component that
// reports an index reports one valid in this numbering.
type Segment struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Start float64 `json:"start_time"`
	End   float64 `json:"end_time"`
}

// OffTopicSpan is a sentence whose similarity to the main subject fell below
// the detection threshold. SegmentIndex points back at the segment the
// sentence was drawn from.
type OffTopicSpan struct {
	Text         string `json:"text" validate:"required"`
	Reason       string `json:"reason" validate:"required"`
	SegmentIndex int    `json:"segment_index" validate:"min=0"`
}

// SegmentAnalysis is the independent per-segment result.
type SegmentAnalysis struct {
	Clarity   int      `json:"clarity" validate:"min=0,max=10"`
	Coherence int      `json:"coherence" validate:"min=0,max=10"`
	Sentiment string   `json:"sentiment" validate:"required"`
	KeyTopics []string `json:"key_topics"`
}

// ComparativeAnalysis describes the delta between two adjacent segments.
// Every field is optional; absence means "no notable change".
type ComparativeAnalysis struct {
	ChangesInSentiment *string  `json:"changes_in_sentiment,omitempty"`
	ChangesInTopics    []string `json:"changes_in_topics,omitempty"`
	SignificantEvents  *string  `json:"significant_events,omitempty"`
}

// EventAnalysis wraps one ComparativeAnalysis with its position over the
// transition sequence. Index is 1-based over transitions and FromSegment is
// always ToSegment-1.
type EventAnalysis struct {
	Index         int                 `json:"index"`
	FromSegment   int                 `json:"from_segment"`
	ToSegment     int                 `json:"to_segment"`
	EventAnalysis ComparativeAnalysis `json:"event_analysis"`
}

type SentimentType string

const (
	SentimentVeryNegative SentimentType = "VERY_NEGATIVE"
	SentimentNegative     SentimentType = "NEGATIVE"
	SentimentNeutral      SentimentType = "NEUTRAL"
	SentimentPositive     SentimentType = "POSITIVE"
	SentimentVeryPositive SentimentType = "VERY_POSITIVE"
)

type IssueDetected string

const (
	IssueInterlude         IssueDetected = "INTERLUDE"
	IssueSpeakingTooFast   IssueDetected = "SPEAKING_TOO_FAST"
	IssueRepetition        IssueDetected = "REPETITION"
	IssueTopicChange       IssueDetected = "CHANGE_THE_TOPIC_OF_SPEECH"
	IssueTooManyNumbers    IssueDetected = "TOO_MANY_NUMBERS"
	IssueDifficultWords    IssueDetected = "TOO_LONG_DIFFICULT_WORDS_OR_SENTENCES"
	IssueJargon            IssueDetected = "JARGON"
	IssueForeignLanguage   IssueDetected = "FOREIGN_LANGUAGE"
	IssuePausingTooLong    IssueDetected = "PAUSING_TOO_LONG"
	IssueSpeakingLouder    IssueDetected = "SPEAKING_LOUDER"
	IssueSpeakingTooQuiet  IssueDetected = "SPEAKING_TOO_QUIET_IN_WHISPER"
	IssueSecondPlanPerson  IssueDetected = "SECOND_PLAN_ANOTHER_PERSON_ON_THE_SET"
	IssueGesticulating     IssueDetected = "TURNING_AWAY_TWISTING_OR_GESTICULATING"
	IssueFacialExpressions IssueDetected = "FACIAL_EXPRESSIONS"
	IssueFalseWords        IssueDetected = "FALSE_OR_NON_EXISTING_WORDS"
	IssueInconsistent      IssueDetected = "INCONSISTENT_SPEECH"
	IssueNoise             IssueDetected = "NOISE"
	IssuePassiveVoice      IssueDetected = "USE_OF_THE_PASSIVE_SIDE"
	IssueAccentuation      IssueDetected = "ACCENTUATION"
)

// QualityMetric is one scored quality dimension with its justification.
type QualityMetric struct {
	Score         int    `json:"score" validate:"min=0,max=10"`
	Justification string `json:"justification"`
}

type Sentiment struct {
	Overall          SentimentType `json:"overall" validate:"required"`
	EmotionsDetected []string      `json:"emotions_detected"`
}

// SegmentsCategorization groups a run of consecutive segments under one
// category. Ranges are inclusive on both ends.
type SegmentsCategorization struct {
	Category    string `json:"category" validate:"required"`
	FromSegment int    `json:"from_segment"`
	ToSegment   int    `json:"to_segment"`
}

// FactDetail is an extracted factual claim, in a short form and a
// self-contained form that can be verified without the transcript at hand.
type FactDetail struct {
	Fact                string `json:"fact" validate:"required"`
	FactWithMoreContext string `json:"fact_with_more_context" validate:"required"`
}

// TargetGroupDistribution is a probability distribution over viewer age
// groups. The fractions must sum to 1.
type TargetGroupDistribution struct {
	AgeGroup13To18  float64 `json:"AGE_GROUP_13_18"`
	AgeGroup19To24  float64 `json:"AGE_GROUP_19_24"`
	AgeGroup25To34  float64 `json:"AGE_GROUP_25_34"`
	AgeGroup35To44  float64 `json:"AGE_GROUP_35_44"`
	AgeGroup45To54  float64 `json:"AGE_GROUP_45_54"`
	AgeGroup55To64  float64 `json:"AGE_GROUP_55_64"`
	AgeGroup65AndUp float64 `json:"AGE_GROUP_65_PLUS"`
}

func (d TargetGroupDistribution) Sum() float64 {
	return d.AgeGroup13To18 + d.AgeGroup19To24 + d.AgeGroup25To34 +
		d.AgeGroup35To44 + d.AgeGroup45To54 + d.AgeGroup55To64 + d.AgeGroup65AndUp
}

// QualityMetrics is the holistic report over the entire indexed segment
// sequence.
type QualityMetrics struct {
	ClarityCoherence      QualityMetric `json:"clarity_coherence"`
	GunningFogIndex       int           `json:"gunning_fog_index"`
	GrammarSyntax         QualityMetric `json:"grammar_syntax"`
	RelevanceToSubject    QualityMetric `json:"relevance_to_subject"`
	VocabularyRichness    QualityMetric `json:"vocabulary_richness"`
	StructureConserved    QualityMetric `json:"structure_conserved_score"`
	FillerWordsUsage      QualityMetric `json:"filler_words_usage"`
	StructureOrganization QualityMetric `json:"structure_organization"`
	Persuasiveness        QualityMetric `json:"persuasiveness"`

	AgeTargetGroups TargetGroupDistribution `json:"age_target_groups"`
	Sentiment       Sentiment               `json:"sentiment"`
	KeyTopics       []string                `json:"key_topics"`

	LLMOffTopicSegments []OffTopicSpan           `json:"llm_off_topic_segments"`
	CategorizedSegments []SegmentsCategorization `json:"categorized_segments"`
	IssuesDetected      [][]IssueDetected        `json:"issues_detected"`
	FactsToVerify       []FactDetail             `json:"facts_to_verify"`
}

type FactStatus string

const (
	FactVerified      FactStatus = "VERIFIED"
	FactMostlyTrue    FactStatus = "MOSTLY_TRUE"
	FactFalse         FactStatus = "FALSE"
	FactUnverifiable  FactStatus = "COULD_NOT_VERIFY"
	FactConspiracy    FactStatus = "CONSPIRACY_THEORY"
	FactNonsense      FactStatus = "COMPLETE_NONSENSE"
	FactMystification FactStatus = "LIES_AND_MISTIFICATION"
)

type FactCheckDetails struct {
	Status           FactStatus `json:"status" validate:"required"`
	Explanation      string     `json:"explanation"`
	KnowledgeSources []string   `json:"name_of_knowledge_source"`
}

// FactCheck is the verification result for one claim. The result order
// always matches the input claim order.
type FactCheck struct {
	Fact    string           `json:"fact"`
	Details FactCheckDetails `json:"details"`
}

// SubtitlesMatch scores the agreement between the transcript and the
// OCR-detected subtitle track.
type SubtitlesMatch struct {
	SubtitlesSimilarity int      `json:"subtitles_similarity" validate:"min=0,max=100"`
	Changes             []string `json:"changes"`
}

// Subtitle is one on-screen text span detected by the video annotator.
type Subtitle struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start_time"`
	End        float64 `json:"end_time"`
	Confidence float64 `json:"confidence"`
	TextBox    string  `json:"text_box"`
}

// BoundingBox is one timestamped person detection, with normalized
// coordinates.
type BoundingBox struct {
	TimeOffset float64 `json:"time_offset"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Right      float64 `json:"right"`
	Bottom     float64 `json:"bottom"`
}

type Questions struct {
	Questions []string `json:"questions" validate:"required"`
}

type Summary struct {
	Summary string `json:"summary" validate:"required"`
}

// AnalysisResult composes the transcript-level analyses. It is constructed
// once per request after all sub-analyses complete and never mutated.
type AnalysisResult struct {
	MainSubject      string          `json:"main_subject"`
	OffTopicSegments []OffTopicSpan  `json:"off_topic_segments"`
	QualityMetrics   *QualityMetrics `json:"quality_metrics"`
}

// SegmentHit is one vector-search result over stored segments.
type SegmentHit struct {
	Score float64 `json:"score"`
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Start float64 `json:"start_time"`
	End   float64 `json:"end_time"`
}

// ProcessVideoResult is the merged response for one processed video.
type ProcessVideoResult struct {
	Transcription    []Segment         `json:"transcription"`
	Analysis         AnalysisResult    `json:"analysis"`
	SegmentsAnalysis []SegmentAnalysis `json:"segments_analysis"`
	Events           []EventAnalysis   `json:"events"`
	SubtitlesMatch   *SubtitlesMatch   `json:"subtitles_matching"`
	FactChecks       []FactCheck       `json:"fact_checks,omitempty"`
	Questions        []string          `json:"questions,omitempty"`
	Summary          string            `json:"summary,omitempty"`
	DetectedPersons  []BoundingBox     `json:"detected_persons,omitempty"`
	VideoURL         string            `json:"video_url,omitempty"`

	// Errors is populated only in degraded mode: field name -> failure.
	Errors map[string]string `json:"errors,omitempty"`
}
