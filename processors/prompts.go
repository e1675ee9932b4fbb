package processors

// Prompt templates for the analysis calls. Each JSON-mode prompt spells out
// the exact object shape so the completion can be deserialized strictly.

const mainSubjectPrompt = `Analyze the following speech transcript and provide a concise summary of the main subject or topics introduced at the beginning:

"""
%s
"""

Provide the main subject in one or two sentences.`

const segmentAnalysisPrompt = `You are an expert speech analyst. Analyze the following transcribed speech segment and provide the analysis.

1. Clarity (score out of 10)
2. Coherence (score out of 10)
3. Sentiment Analysis (Positive/Negative/Neutral)
4. Key Topics Discussed (list of topics)

Respond with a JSON object of this exact shape:
{"clarity": <0-10>, "coherence": <0-10>, "sentiment": "<Positive|Negative|Neutral>", "key_topics": ["<topic>", ...]}

Transcription:
"""
%s
"""`

const comparativePrompt = `You are an expert speech analyst. Compare the following two consecutive transcribed speech segments.

Segment 1:
"""
%s
"""

Segment 2:
"""
%s
"""

Compare and analyze:
1. Changes in Sentiment
2. Changes in Topics Discussed
3. Any Significant Events or Shifts

Respond with a JSON object of this exact shape, omitting any field where no change was detected:
{"changes_in_sentiment": "<description>", "changes_in_topics": ["<topic change>", ...], "significant_events": "<description>"}`

const qualityAnalysisPrompt = `You are an expert speech analyst. Analyze the following transcribed speech and provide the analysis.
You receive indexed segments ("<index>: <text>", indices start at 0) so that you can attribute findings to consecutive segments.

Transcripts might contain the following issues: INTERLUDE, SPEAKING_TOO_FAST, REPETITION, CHANGE_THE_TOPIC_OF_SPEECH, TOO_MANY_NUMBERS, TOO_LONG_DIFFICULT_WORDS_OR_SENTENCES, JARGON, FOREIGN_LANGUAGE, PAUSING_TOO_LONG, SPEAKING_LOUDER, SPEAKING_TOO_QUIET_IN_WHISPER, SECOND_PLAN_ANOTHER_PERSON_ON_THE_SET, TURNING_AWAY_TWISTING_OR_GESTICULATING, FACIAL_EXPRESSIONS, FALSE_OR_NON_EXISTING_WORDS, INCONSISTENT_SPEECH, NOISE, USE_OF_THE_PASSIVE_SIDE, ACCENTUATION.

Provide:
1. Clarity and Coherence, Grammar and Syntax, Relevance to Main Subject, Vocabulary Richness, Use of Filler Words, Structure and Organization, Persuasiveness, and whether the speech conserved an introduction/development/conclusion structure - each as {"score": <0-10>, "justification": "<text>"}.
2. The Gunning fog index for the whole transcript as an integer.
3. Sentiment: {"overall": "<VERY_NEGATIVE|NEGATIVE|NEUTRAL|POSITIVE|VERY_POSITIVE>", "emotions_detected": [...]}.
4. "age_target_groups": the probability distribution of the targeted viewer age group over keys AGE_GROUP_13_18, AGE_GROUP_19_24, AGE_GROUP_25_34, AGE_GROUP_35_44, AGE_GROUP_45_54, AGE_GROUP_55_64, AGE_GROUP_65_PLUS. Make sure the individual fractions sum to exactly 1.
5. "key_topics": the list of key topics discussed.
6. "llm_off_topic_segments": segments that do not fit the main subject, each {"text", "reason", "segment_index"}.
7. "categorized_segments": group consecutive segments into logically coherent clusters, each {"category", "from_segment", "to_segment"} with inclusive, non-overlapping, ascending index ranges.
8. "issues_detected": one inner list of issue codes per segment, in segment order; the outer list must have exactly one entry per input segment (an empty list when a segment is clean).
9. "facts_to_verify": all information presented as fact that a viewer ought to verify, each {"fact": "<short form>", "fact_with_more_context": "<self-contained form with enough context to verify independently>"}.

Respond with a single JSON object using keys: clarity_coherence, gunning_fog_index, grammar_syntax, relevance_to_subject, vocabulary_richness, structure_conserved_score, filler_words_usage, structure_organization, persuasiveness, age_target_groups, sentiment, key_topics, llm_off_topic_segments, categorized_segments, issues_detected, facts_to_verify.

Transcription:
"""
%s
"""`

const factCheckPrompt = `You are an expert fact verification analyst. Verify the fact provided below against your knowledge.

1. Assign one status: VERIFIED, MOSTLY_TRUE, FALSE, COULD_NOT_VERIFY, CONSPIRACY_THEORY, COMPLETE_NONSENSE or LIES_AND_MISTIFICATION.
2. Explain why that exact status was assigned.
3. Name all sources used for the verification.

Respond with a JSON object of this exact shape, without any wrapping like ` + "```json```" + `:
{"fact": "<the fact>", "details": {"status": "<status>", "explanation": "<why>", "name_of_knowledge_source": ["<source>", ...]}}

Fact to verify:
"""
%s
"""`

const subtitlesComparePrompt = `Rate the similarity between two versions of subtitles for a video between 0%% and 100%% and enumerate the concrete discrepancies (for example misheard or misread words). Ignore differences of a single character, casing or punctuation noise.

Subtitles A:
%s

Subtitles B:
%s

Respond with a JSON object of this exact shape:
{"subtitles_similarity": <0-100>, "changes": ["<'x' instead of 'y'>", ...]}`

const questionsPrompt = `Ask 10 questions about the following text:
%s

Respond with a JSON object of this exact shape:
{"questions": ["<question>", ...]}`

const summaryPrompt = `Summarize the following text:
%s

Respond with a JSON object of this exact shape:
{"summary": "<quick summary of the text>"}`
