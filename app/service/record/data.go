package record

// Wire names of the interaction fields, as the extraction backend sends them.
const (
	FieldHCPName         = "hcp_name"
	FieldDate            = "date"
	FieldTime            = "time"
	FieldInteractionType = "interaction_type"
	FieldAttendees       = "attendees"
	FieldTopics          = "topics"
	FieldSentiment       = "sentiment"
	FieldOutcomes        = "outcomes"
	FieldFollowUpActions = "follow_up_actions"
)

const (
	DefaultSentiment       = "Neutral"
	DefaultInteractionType = "Meeting"
)

// Interaction is the structured record derived from the conversation.
// Every field is always defined; free-text fields default to "".
type Interaction struct {
	HCPName         string `json:"hcp_name"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	InteractionType string `json:"interaction_type"`
	Attendees       string `json:"attendees"`
	Topics          string `json:"topics"`
	Sentiment       string `json:"sentiment"`
	Outcomes        string `json:"outcomes"`
	FollowUpActions string `json:"follow_up_actions"`
}

func NewInteraction() Interaction {
	return Interaction{
		InteractionType: DefaultInteractionType,
		Sentiment:       DefaultSentiment,
	}
}

// set overwrites the field with the given wire name and reports whether the
// key is part of the schema.
func (i *Interaction) set(key, value string) bool {
	switch key {
	case FieldHCPName:
		i.HCPName = value
	case FieldDate:
		i.Date = value
	case FieldTime:
		i.Time = value
	case FieldInteractionType:
		i.InteractionType = value
	case FieldAttendees:
		i.Attendees = value
	case FieldTopics:
		i.Topics = value
	case FieldSentiment:
		i.Sentiment = value
	case FieldOutcomes:
		i.Outcomes = value
	case FieldFollowUpActions:
		i.FollowUpActions = value
	default:
		return false
	}

	return true
}
