package bus

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"
)

// Envelope is the JSON body of every message on the bus.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode wraps payload in an envelope of type typ, ready to publish. A nil
// payload leaves the envelope without one.
func Encode(typ string, payload any) (*message.Message, error) {
	if typ == "" {
		return nil, errors.New("empty envelope type")
	}
	env := Envelope{Type: typ}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "marshal %s payload", typ)
		}
		env.Payload = b
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s envelope", typ)
	}
	return message.NewMessage(watermill.NewUUID(), b), nil
}

// DecodeMessage reads the envelope carried by msg.
func DecodeMessage(msg *message.Message) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		return Envelope{}, errors.Wrap(err, "unmarshal envelope")
	}
	return env, nil
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	if len(e.Payload) == 0 {
		return errors.Errorf("%s: empty payload", e.Type)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return errors.Wrapf(err, "unmarshal %s payload", e.Type)
	}
	return nil
}

// Publish encodes payload as a typ envelope and publishes it on topic.
func Publish(pub message.Publisher, topic, typ string, payload any) error {
	if pub == nil {
		return errors.New("missing publisher")
	}
	msg, err := Encode(typ, payload)
	if err != nil {
		return err
	}
	return errors.Wrapf(pub.Publish(topic, msg), "publish %s", typ)
}
