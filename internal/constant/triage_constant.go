package constant

// Internal pub/sub topics (watermill).
const (
	TopicTriageCompleted = "TRIAGE_COMPLETED"
)

// External event codes relayed over NATS JetStream.
const (
	EventTriageCompleted = "TRIAGE_COMPLETED"
	EventTriageFinalized = "TRIAGE_FINALIZED"
)

// Module names used in structured log entries.
const (
	ModuleTriage       = "TriageService"
	ModuleConversation = "ConversationService"
	ModuleReview       = "ReviewService"
	ModuleNotification = "NotificationService"
	ModuleConsumer     = "ConsumerService"
	ModuleAuth         = "AuthService"
)
