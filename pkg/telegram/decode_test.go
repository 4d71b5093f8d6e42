package telegram

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestDecodeMissingRequiredField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"top level", `{"message_id":1,"date":2}`, "chat"},
		{"nested", `{"message_id":1,"date":2,"chat":{"type":"private"}}`, "chat.id"},
		{"null required", `{"message_id":1,"date":null,"chat":{"id":1,"type":"private"}}`, "date"},
		{"inside optional pointer", `{"message_id":1,"date":2,"chat":{"id":1,"type":"private"},"from":{"id":5,"is_bot":false}}`, "from.first_name"},
		{"inside slice", `{"message_id":1,"date":2,"chat":{"id":1,"type":"private"},"photo":[{"file_id":"a","file_unique_id":"b","width":1,"height":1},{"file_id":"c","width":1,"height":1}]}`, "photo[1].file_unique_id"},
		{"embedded struct", `{"id":1,"is_bot":true,"first_name":"bot","can_join_groups":true,"can_read_all_group_messages":false}`, "supports_inline_queries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var err error
			if tt.name == "embedded struct" {
				_, err = Decode[BotUser]([]byte(tt.data))
			} else {
				_, err = Decode[Message]([]byte(tt.data))
			}

			var mapErr *MappingError
			if !errors.As(err, &mapErr) {
				t.Fatalf("error = %T %v, want *MappingError", err, err)
			}
			if mapErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", mapErr.Field, tt.field)
			}
		})
	}
}

func TestDecodeOptionalAbsent(t *testing.T) {
	t.Parallel()

	msg, err := Decode[Message]([]byte(`{"message_id":7,"date":1,"chat":{"id":-100,"type":"supergroup","title":"g"},"from":null}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if msg.From != nil {
		t.Errorf("From = %+v, want nil", msg.From)
	}
	if msg.Photo != nil {
		t.Errorf("Photo = %v, want nil", msg.Photo)
	}
	if msg.ReplyToMessage != nil {
		t.Error("ReplyToMessage should be nil")
	}
	if msg.Text != "" {
		t.Errorf("Text = %q, want empty", msg.Text)
	}
	if msg.Chat.Title != "g" {
		t.Errorf("Chat.Title = %q, want g", msg.Chat.Title)
	}
}

func TestDecodeTypeMismatch(t *testing.T) {
	t.Parallel()

	_, err := Decode[Message]([]byte(`{"message_id":"seven","date":1,"chat":{"id":1,"type":"private"}}`))

	var mapErr *MappingError
	if !errors.As(err, &mapErr) {
		t.Fatalf("error = %T %v, want *MappingError", err, err)
	}
	if mapErr.Field != "message_id" {
		t.Errorf("Field = %q, want message_id", mapErr.Field)
	}
	if mapErr.Type != "Message" {
		t.Errorf("Type = %q, want Message", mapErr.Type)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := Decode[User]([]byte(`{"id":`))
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error = %T %v, want *DecodeError", err, err)
	}
}

func TestDecodeScalarResults(t *testing.T) {
	t.Parallel()

	ok, err := Decode[bool]([]byte(`true`))
	if err != nil || !ok {
		t.Errorf("Decode[bool] = %v, %v; want true, nil", ok, err)
	}

	if _, err := Decode[bool]([]byte(`null`)); err == nil {
		t.Error("Decode[bool](null) error = nil, want *MappingError")
	}

	updates, err := Decode[[]Update]([]byte(`[]`))
	if err != nil || len(updates) != 0 {
		t.Errorf("Decode[[]Update]([]) = %v, %v; want empty, nil", updates, err)
	}
}

func TestDecodeUnknownFieldsIgnored(t *testing.T) {
	t.Parallel()

	u, err := Decode[User]([]byte(`{"id":1,"is_bot":false,"first_name":"A","is_premium":true,"added_to_attachment_menu":true}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if u.ID != 1 || u.FirstName != "A" {
		t.Errorf("User = %+v, want id 1 first_name A", u)
	}
}

func TestDecodeChatPermissionsKeepsExplicitFalse(t *testing.T) {
	t.Parallel()

	p, err := Decode[ChatPermissions]([]byte(`{"can_send_messages":false,"can_pin_messages":true}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if p.CanSendMessages == nil || *p.CanSendMessages {
		t.Errorf("CanSendMessages = %v, want explicit false", p.CanSendMessages)
	}
	if p.CanPinMessages == nil || !*p.CanPinMessages {
		t.Errorf("CanPinMessages = %v, want true", p.CanPinMessages)
	}
	if p.CanInviteUsers != nil {
		t.Errorf("CanInviteUsers = %v, want absent", *p.CanInviteUsers)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	correct := 1
	reply := testMessage(1, "question")
	update := Update{
		UpdateID: 42,
		Message: &Message{
			MessageID:      2,
			Date:           1700000001,
			Chat:           Chat{ID: -100123, Type: "supergroup", Title: "group"},
			From:           &User{ID: 9, IsBot: false, FirstName: "Bob", LanguageCode: "en"},
			ReplyToMessage: &reply,
			Poll: &Poll{
				ID:              "p1",
				Question:        "2+2?",
				Options:         []PollOption{{Text: "3", VoterCount: 0}, {Text: "4", VoterCount: 2}},
				TotalVoterCount: 2,
				Type:            PollQuiz,
				CorrectOptionID: &correct,
			},
			Entities:    []MessageEntity{{Type: "bold", Offset: 0, Length: 3}},
			ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{{CallbackButton("ok", "yes")}}},
		},
	}

	data, err := json.Marshal(update)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	got, err := Decode[Update](data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !reflect.DeepEqual(got, update) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got.Message, update.Message)
	}
}

func TestDecodeResultStampsMethod(t *testing.T) {
	t.Parallel()

	_, err := decodeResult[Message]("sendMessage", []byte(`{}`))
	var mapErr *MappingError
	if !errors.As(err, &mapErr) {
		t.Fatalf("error = %T, want *MappingError", err)
	}
	if mapErr.Method != "sendMessage" {
		t.Errorf("Method = %q, want sendMessage", mapErr.Method)
	}
}
