package extract

// Config tunes the built-in extractors.
type Config struct {
	// NResponses bounds the initial_latency and user_reply_len extractors
	// to the opening exchanges of a conversation.
	NResponses int
	// MinReplyLen is the character threshold for user_reply_len.
	MinReplyLen int
}

// Names under which the built-in extractors register.
const (
	FeatureMessageCount          = "message_count"
	FeatureUserMessageCount      = "user_message_count"
	FeatureAssistantMessageCount = "assistant_message_count"
	FeatureMessageLength         = "message_length"
	FeatureResponseTime          = "response_time"
	FeatureInitialLatency        = "initial_latency"
	FeatureUserReplyLen          = "user_reply_len"
	FeatureDayThroughput         = "day_throughput"
	FeatureHourThroughput        = "hour_throughput"
	FeatureTenMinThroughput      = "ten_min_throughput"

	TargetResponseRate         = "response_rate"
	TargetUserEngagement       = "user_engagement"
	TargetEngagementScore      = "engagement_score"
	TargetConversationDuration = "conversation_duration"
	TargetSentiment            = "sentiment"
	TargetDealMade             = "deal_made"
	TargetResolved             = "resolved"
)

// Builtin returns a registry populated with every built-in feature and
// target extractor.
func Builtin(cfg Config) *Registry {
	if cfg.NResponses <= 0 {
		cfg.NResponses = 3
	}
	if cfg.MinReplyLen <= 0 {
		cfg.MinReplyLen = 20
	}

	reg := NewRegistry()

	features := map[string]ComputeFunc{
		FeatureMessageCount:          MessageCount,
		FeatureUserMessageCount:      UserMessageCount,
		FeatureAssistantMessageCount: AssistantMessageCount,
		FeatureMessageLength:         MessageLength,
		FeatureResponseTime:          ResponseTime,
		FeatureInitialLatency:        InitialLatency(cfg.NResponses),
		FeatureUserReplyLen:          UserReplyLen(cfg.NResponses, cfg.MinReplyLen),
		FeatureDayThroughput:         Throughput(BucketDay),
		FeatureHourThroughput:        Throughput(BucketHour),
		FeatureTenMinThroughput:      Throughput(BucketTenMin),
	}
	for name, fn := range features {
		if err := reg.RegisterFeature(name, fn); err != nil {
			panic(err)
		}
	}

	targets := map[string]ComputeFunc{
		TargetResponseRate:         ResponseRate,
		TargetUserEngagement:       UserEngagement,
		TargetEngagementScore:      EngagementScore,
		TargetConversationDuration: ConversationDuration,
		TargetSentiment:            Sentiment,
		TargetDealMade:             DealMade,
		TargetResolved:             Resolved,
	}
	for name, fn := range targets {
		if err := reg.RegisterTarget(name, fn); err != nil {
			panic(err)
		}
	}

	return reg
}
