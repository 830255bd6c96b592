package gateway

import (
	"github.com/andreyxaxa/Access-Gate/internal/entity"
)

type MessageKind int

const (
	KindText MessageKind = iota
	KindClear
	KindDecision
	KindPending
	KindFailure
)

// DisplayMessage is the only thing tasks send to the display.
type DisplayMessage struct {
	Kind       MessageKind
	Text       string
	StatusID   string
	Authorised bool
}

func TextMessage(text string) DisplayMessage {
	return DisplayMessage{Kind: KindText, Text: text}
}

func ClearMessage() DisplayMessage {
	return DisplayMessage{Kind: KindClear}
}

func DecisionMessage(push entity.AuthorizationPush) DisplayMessage {
	return DisplayMessage{Kind: KindDecision, StatusID: push.ID, Authorised: push.Authorised}
}

func PendingMessage(p *entity.StatusProjection) DisplayMessage {
	return DisplayMessage{Kind: KindPending, StatusID: p.ID.String(), Authorised: p.Authorised}
}

// FailureMessage carries the short reason of a failed capture request.
func FailureMessage(reason string) DisplayMessage {
	return DisplayMessage{Kind: KindFailure, Text: reason}
}

// Lines renders m for a two line display. An empty result means clear.
func (m DisplayMessage) Lines() []string {
	switch m.Kind {
	case KindText:
		return []string{m.Text}
	case KindDecision:
		if m.Authorised {
			return []string{"Authorised"}
		}
		return []string{"Not Authorised"}
	case KindPending:
		return []string{"Pending review", shortID(m.StatusID)}
	case KindFailure:
		return []string{"Capture failed", m.Text}
	default:
		return nil
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
