package protocol

import (
	"encoding/json"
	"testing"
)

func TestNewMessage(t *testing.T) {
	tests := []struct {
		name    string
		msgType MessageType
		data    interface{}
		wantErr bool
	}{
		{
			name:    "command message",
			msgType: TypeCommand,
			data:    CommandData{Token: "f"},
		},
		{
			name:    "result message",
			msgType: TypeResult,
			data:    ResultData{Status: "!(0,0,N)", Outcome: "blocked_low_battery"},
		},
		{
			name:    "nil data",
			msgType: TypePower,
			data:    nil,
		},
		{
			name:    "unmarshalable data",
			msgType: TypeState,
			data:    make(chan int),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage(tt.msgType, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMessage() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if msg.Type != tt.msgType {
				t.Errorf("NewMessage() type = %v, want %v", msg.Type, tt.msgType)
			}
			if msg.Timestamp == 0 {
				t.Error("NewMessage() timestamp should be set")
			}
		})
	}
}

func TestParseMessage(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"type":"command","id":"abc","data":{"token":"r"}}`))
	if err != nil {
		t.Fatalf("ParseMessage error: %v", err)
	}
	if msg.Type != TypeCommand || msg.ID != "abc" {
		t.Errorf("got type %s id %s", msg.Type, msg.ID)
	}

	var cmd CommandData
	if err := msg.ParseData(&cmd); err != nil {
		t.Fatalf("ParseData error: %v", err)
	}
	if cmd.Token != "r" {
		t.Errorf("Token = %q, want r", cmd.Token)
	}

	if _, err := ParseMessage([]byte("not json")); err == nil {
		t.Error("ParseMessage should fail on invalid JSON")
	}
	if _, err := ParseMessage([]byte(`{"data":{}}`)); err == nil {
		t.Error("ParseMessage should fail without a type")
	}
}

func TestResultOmitsTarget(t *testing.T) {
	msg, _ := NewResultMessage(ResultData{Status: "(0,1,N)", Outcome: "moved"})
	if !json.Valid(msg.Data) {
		t.Fatal("data is not valid JSON")
	}

	var raw map[string]interface{}
	json.Unmarshal(msg.Data, &raw)
	if _, ok := raw["target"]; ok {
		t.Error("target should be omitted when nil")
	}

	msg, _ = NewResultMessage(ResultData{Status: "(0,1,N)(0,2)", Target: &PositionData{0, 2}})
	json.Unmarshal(msg.Data, &raw)
	if _, ok := raw["target"]; !ok {
		t.Error("target should be present for a blocked move")
	}
}

func TestReplyAndPong(t *testing.T) {
	ping, _ := NewPingMessage()
	var pd PingData
	ping.ParseData(&pd)
	if pd.ClientTS == 0 {
		t.Error("ping should carry client timestamp")
	}

	pong, _ := NewPongMessage(pd.ClientTS, pd.ClientTS+5)
	pong.Reply("req-1")
	if pong.ID != "req-1" || pong.Type != TypePong {
		t.Errorf("pong = %+v", pong)
	}

	data, err := pong.Bytes()
	if err != nil {
		t.Fatalf("Bytes error: %v", err)
	}
	back, err := ParseMessage(data)
	if err != nil || back.ID != "req-1" {
		t.Errorf("round trip = %+v, %v", back, err)
	}
}
