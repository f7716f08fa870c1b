package domain

// ClientStatus represents the lifecycle state of a client account.
type ClientStatus string

const (
	ClientStatusActive  ClientStatus = "ACTIVE"
	ClientStatusPaused  ClientStatus = "PAUSED"
	ClientStatusChurned ClientStatus = "CHURNED"
)

func (s ClientStatus) String() string { return string(s) }

func (s ClientStatus) IsValid() bool {
	switch s {
	case ClientStatusActive, ClientStatusPaused, ClientStatusChurned:
		return true
	}
	return false
}

// SubscriptionStatus represents the billing state of a client.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionTrialing SubscriptionStatus = "TRIALING"
	SubscriptionPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
)

func (s SubscriptionStatus) String() string { return string(s) }

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue, SubscriptionCanceled:
		return true
	}
	return false
}

// PermitsPublishing reports whether content may be published for a client
// in this billing state.
func (s SubscriptionStatus) PermitsPublishing() bool {
	return s == SubscriptionActive || s == SubscriptionTrialing
}

// ContentStatus represents the lifecycle of a generated content item.
// DRAFT → GENERATING → REVIEW/FAILED → APPROVED → PUBLISHED.
type ContentStatus string

const (
	ContentStatusDraft      ContentStatus = "DRAFT"
	ContentStatusGenerating ContentStatus = "GENERATING"
	ContentStatusReview     ContentStatus = "REVIEW"
	ContentStatusFailed     ContentStatus = "FAILED"
	ContentStatusApproved   ContentStatus = "APPROVED"
	ContentStatusPublished  ContentStatus = "PUBLISHED"
)

func (s ContentStatus) String() string { return string(s) }

func (s ContentStatus) IsValid() bool {
	switch s {
	case ContentStatusDraft, ContentStatusGenerating, ContentStatusReview,
		ContentStatusFailed, ContentStatusApproved, ContentStatusPublished:
		return true
	}
	return false
}

// QuestionSource distinguishes library-cloned questions from client-authored
// ones. Both rotate identically.
type QuestionSource string

const (
	QuestionSourceStandard QuestionSource = "STANDARD"
	QuestionSourceCustom   QuestionSource = "CUSTOM"
)

func (s QuestionSource) String() string { return string(s) }

func (s QuestionSource) IsValid() bool {
	return s == QuestionSourceStandard || s == QuestionSourceCustom
}

// UserRole represents the authorization level of a dashboard user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

func (r UserRole) IsAdmin() bool { return r == UserRoleAdmin }
