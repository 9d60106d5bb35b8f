// Package domain implements the ocean hazard rule engine: classification,
// sentiment scoring, and per-record processing of social-media posts.
//
// # Data Source
//
// Posts arrive as arbitrary JSON objects from platform-specific
// collectors (Twitter API payloads, mock FB/IG/YT feeds). No schema is
// guaranteed; logical values hide behind platform-specific field names,
// resolved through ordered alias lists (text/content/message,
// retweets/retweet_count/shares, and so on). The first present non-default
// value wins.
//
// # Text Cleaning
//
// Before scoring, text is cleaned: retweet markers, @mentions, URLs, the
// hashtag symbol (word kept), and emoji are stripped; whitespace is
// collapsed; the result is lowercased. Optionally, non-English text is
// dropped entirely. Text that cleans to nothing produces a defaulted
// record (category "General", urgency "low", neutral sentiment) — never
// an error.
//
// # Scoring
//
// Classification is additive over declarative keyword/pattern rules
// (rules.yaml, embedded): a contained keyword scores 1, a matched phrase
// pattern scores 2. Category confidence normalizes by 5, urgency by 3,
// both capped at 1. Ties resolve to the first-declared entry, so rule
// order in the YAML document is part of the contract.
//
// Sentiment layers domain urgency logic over an external
// polarity/subjectivity primitive. The urgency score is density-sensitive:
// keyword and pattern hits divide by max(wordCount*0.1, 1), so short posts
// saturate with fewer hits. An urgency score above 0.7 labels the record
// "emergency" regardless of polarity.
//
// # Confidence Semantics
//
// Two confidence figures exist and are different quantities:
// hazard_analysis.confidence is the mean of category and urgency rule
// confidence; sentiment_analysis.confidence blends subjectivity distance
// from the midpoint with indicator, polarity, and urgency boosts. Neither
// is a probability.
//
// # Failure Model
//
// Nothing in this package is fatal. Missing fields default, empty text
// degrades, a failing sentiment provider is replaced by a neutral score,
// and geocoding failures only tag GeoSource. The worst outcome is a
// lower-confidence, neutral record.
package domain
