package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-explorer/internal/domain/viewstate"
)

// ValkeyStore keeps session view state in Valkey so several instances share it.
type ValkeyStore struct {
	client   valkey.Client
	prefix   string
	ttl      time.Duration
	guardTTL time.Duration
}

// NewValkeyStore constructs a store backed by Valkey. guardTTL bounds how long a crashed
// submission can keep a session locked.
func NewValkeyStore(client valkey.Client, prefix string, ttl, guardTTL time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "weather"
	}
	if guardTTL < time.Second {
		guardTTL = 30 * time.Second
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl, guardTTL: guardTTL}
}

func (s *ValkeyStore) Load(ctx context.Context, session string) (viewstate.State, error) {
	exists, err := s.client.Do(ctx, s.client.B().Exists().Key(s.guardKey(session)).Build()).AsInt64()
	if err != nil {
		return viewstate.State{}, err
	}
	if exists > 0 {
		return viewstate.Loading(), nil
	}
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.stateKey(session)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return viewstate.Idle(), nil
		}
		return viewstate.State{}, err
	}
	var state viewstate.State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return viewstate.State{}, fmt.Errorf("decode view state: %w", err)
	}
	return state, nil
}

func (s *ValkeyStore) Begin(ctx context.Context, session string) (bool, error) {
	cmd := s.client.B().Set().Key(s.guardKey(session)).Value("1").Nx().ExSeconds(int64(s.guardTTL / time.Second)).Build()
	err := s.client.Do(ctx, cmd).Error()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ValkeyStore) Settle(ctx context.Context, session string, state viewstate.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := s.setString(ctx, s.stateKey(session), string(payload)); err != nil {
		return err
	}
	return s.client.Do(ctx, s.client.B().Del().Key(s.guardKey(session)).Build()).Error()
}

func (s *ValkeyStore) Clear(ctx context.Context, session string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.stateKey(session), s.guardKey(session)).Build()).Error()
}

func (s *ValkeyStore) setString(ctx context.Context, key, value string) error {
	builder := s.client.B().Set().Key(key).Value(value)
	var cmd valkey.Completed
	if s.ttl > 0 {
		ttl := s.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) stateKey(session string) string {
	return fmt.Sprintf("%s:session:%s:state", s.prefix, session)
}

func (s *ValkeyStore) guardKey(session string) string {
	return fmt.Sprintf("%s:session:%s:inflight", s.prefix, session)
}

var _ viewstate.Store = (*ValkeyStore)(nil)
