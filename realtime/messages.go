package realtime

import (
	"encoding/json"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const (
	protocolVersion = "1.0.0"
	heartbeatTopic  = "phoenix"

	eventJoin      = "phx_join"
	eventReply     = "phx_reply"
	eventClose     = "phx_close"
	eventError     = "phx_error"
	eventHeartbeat = "heartbeat"
	eventChanges   = "postgres_changes"

	replyStatusOK = "ok"
)

// Change actions as the platform reports them.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"

	// EventAll subscribes to every action on a table.
	EventAll = "*"
)

// Subscription names one table's change feed.
type Subscription struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
	Event  string `json:"event"`
}

func (s Subscription) topic() string {
	return "realtime:" + s.Schema + ":" + s.Table
}

// ChangeEvent is one committed row change, decoded from the wire.
type ChangeEvent struct {
	Schema     string
	Table      string
	Action     string
	Record     map[string]interface{}
	OldRecord  map[string]interface{}
	CommitTime time.Time
}

type outboundMessage struct {
	Topic   string      `json:"topic"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Ref     string      `json:"ref"`
}

type inboundMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     *string         `json:"ref"`
}

type joinPayload struct {
	Config channelConfig `json:"config"`
}

type channelConfig struct {
	PostgresChanges []Subscription `json:"postgres_changes"`
}

type replyPayload struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

type changesPayload struct {
	IDs  []int64    `json:"ids"`
	Data changeData `json:"data"`
}

type changeData struct {
	Type            string                 `json:"type"`
	Schema          string                 `json:"schema"`
	Table           string                 `json:"table"`
	CommitTimestamp string                 `json:"commit_timestamp"`
	Record          map[string]interface{} `json:"record"`
	OldRecord       map[string]interface{} `json:"old_record"`
}

func (m inboundMessage) reply() (replyPayload, error) {
	var reply replyPayload
	if err := jsoniter.Unmarshal(m.Payload, &reply); err != nil {
		return replyPayload{}, errors.Wrap(err, "decode channel reply")
	}
	return reply, nil
}

func (m inboundMessage) changeEvent() (ChangeEvent, error) {
	var payload changesPayload
	if err := jsoniter.Unmarshal(m.Payload, &payload); err != nil {
		return ChangeEvent{}, errors.Wrap(err, "decode change record")
	}

	event := ChangeEvent{
		Schema:    payload.Data.Schema,
		Table:     payload.Data.Table,
		Action:    payload.Data.Type,
		Record:    payload.Data.Record,
		OldRecord: payload.Data.OldRecord,
	}
	if payload.Data.CommitTimestamp != "" {
		ts, err := time.Parse(time.RFC3339, payload.Data.CommitTimestamp)
		if err != nil {
			return ChangeEvent{}, errors.Wrap(err, "parse commit timestamp")
		}
		event.CommitTime = ts
	}
	return event, nil
}

func joinRef(i int) string {
	return strconv.Itoa(i + 1)
}

func refString(n int) string {
	return strconv.Itoa(n)
}
