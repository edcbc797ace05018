package push

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/taptosell-admin/internal/models"
)

func TestBuildNotification(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		msg      Message
		body     string
		link     string
		withLink bool
	}{
		{
			name:     "created brand",
			msg:      Message{Event: EventCreated, Collection: "brands", Name: "Nike", Slug: "nike"},
			body:     `Brand "Nike" was created`,
			link:     "/brands/nike",
			withLink: true,
		},
		{
			name:     "updated team member",
			msg:      Message{Event: EventUpdated, Collection: "teams", Name: "Ada", Slug: "ada"},
			body:     `Team member "Ada" was updated`,
			link:     "/teams/ada",
			withLink: true,
		},
		{
			name: "deleted user has no link",
			msg:  Message{Event: EventDeleted, Collection: "users", Name: "Grace", Slug: "grace"},
			body: `User "Grace" was deleted`,
		},
		{
			name:     "missing name falls back to slug",
			msg:      Message{Event: EventCreated, Collection: "categories", Slug: "shoes"},
			body:     `Category "shoes" was created`,
			link:     "/categories/shoes",
			withLink: true,
		},
		{
			name:     "unknown collection",
			msg:      Message{Event: EventCreated, Collection: "widgets", Name: "W", Slug: "w"},
			body:     `Record "W" was created`,
			link:     "/widgets/w",
			withLink: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := BuildNotification(tc.msg, now)
			assert.Equal(t, NotificationTitle, n.Title)
			assert.Equal(t, tc.body, n.Body)
			assert.Equal(t, now, n.CreatedAt)
			if tc.withLink {
				require.NotNil(t, n.Link)
				assert.Equal(t, tc.link, *n.Link)
			} else {
				assert.Nil(t, n.Link)
			}
		})
	}
}

func TestMessage_RoundTrip(t *testing.T) {
	in := Message{Event: EventCreated, Collection: "users", Name: "Ada", Slug: "ada", SentAt: time.Unix(1700000000, 0).UTC()}
	payload, err := in.Encode()
	require.NoError(t, err)

	out, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = Decode([]byte("not json"))
	assert.Error(t, err)
}

type fakeSink struct {
	created []*models.Notification
	err     error
}

func (f *fakeSink) Create(ctx context.Context, n *models.Notification) error {
	if f.err != nil {
		return f.err
	}
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, n)
	return nil
}

func TestDisplayNotification(t *testing.T) {
	sink := &fakeSink{}
	handler := DisplayNotification(sink)

	err := handler(context.Background(), Message{Event: EventCreated, Collection: "brands", Name: "Nike", Slug: "nike"})
	require.NoError(t, err)
	require.Len(t, sink.created, 1)
	assert.Equal(t, `Brand "Nike" was created`, sink.created[0].Body)

	sink.err = errors.New("db down")
	err = handler(context.Background(), Message{Event: EventDeleted, Collection: "brands", Name: "Nike", Slug: "nike"})
	assert.ErrorContains(t, err, "db down")
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Message{}))
}
