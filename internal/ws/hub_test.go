package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/relayhq/chatrelay/internal/model"
	"github.com/relayhq/chatrelay/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub *Hub
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub(testutil.NopLogger())
}

// addClient registers a bare client with a buffered send channel. The
// transport connection is irrelevant to fan-out behavior.
func (s *HubSuite) addClient(id model.ConnID, buffer int) *Client {
	client := &Client{
		id:   id,
		send: make(chan []byte, buffer),
	}
	s.hub.Register(client)
	return client
}

func (s *HubSuite) decode(data []byte) model.ServerEvent {
	var event model.ServerEvent
	s.Require().NoError(json.Unmarshal(data, &event))
	return event
}

func (s *HubSuite) TestSendToReachesOnlyTarget() {
	alice := s.addClient("conn-1", 8)
	bob := s.addClient("conn-2", 8)

	s.hub.SendTo("conn-1", model.ServerEvent{Type: model.EventJoinSucceeded, Username: "Alice"})

	s.Require().Len(alice.send, 1)
	s.Empty(bob.send)

	event := s.decode(<-alice.send)
	s.Equal(model.EventJoinSucceeded, event.Type)
	s.Equal("Alice", event.Username)
}

func (s *HubSuite) TestSendToUnknownConnectionIsNoop() {
	s.hub.SendTo("conn-404", model.ServerEvent{Type: model.EventJoinFailed})
}

func (s *HubSuite) TestBroadcastReachesEveryone() {
	alice := s.addClient("conn-1", 8)
	bob := s.addClient("conn-2", 8)

	s.hub.Broadcast(model.ServerEvent{Type: model.EventChatMessage, Text: "hello"})

	s.Len(alice.send, 1)
	s.Len(bob.send, 1)
}

func (s *HubSuite) TestBroadcastExceptSkipsOne() {
	alice := s.addClient("conn-1", 8)
	bob := s.addClient("conn-2", 8)
	carol := s.addClient("conn-3", 8)

	s.hub.BroadcastExcept("conn-2", model.ServerEvent{Type: model.EventUserJoined, Username: "Bob"})

	s.Len(alice.send, 1)
	s.Empty(bob.send)
	s.Len(carol.send, 1)
}

func (s *HubSuite) TestFullBufferDropsFrameWithoutBlocking() {
	alice := s.addClient("conn-1", 1)
	bob := s.addClient("conn-2", 8)

	s.hub.Broadcast(model.ServerEvent{Type: model.EventChatMessage, Text: "one"})
	s.hub.Broadcast(model.ServerEvent{Type: model.EventChatMessage, Text: "two"})

	// Alice's second frame was dropped; Bob got both
	s.Len(alice.send, 1)
	s.Len(bob.send, 2)
}

func (s *HubSuite) TestUnregisterRemovesClientFromFanOut() {
	alice := s.addClient("conn-1", 8)
	s.addClient("conn-2", 8)
	s.Equal(2, s.hub.ClientCount())

	s.hub.Unregister("conn-1")
	s.Equal(1, s.hub.ClientCount())

	s.hub.Broadcast(model.ServerEvent{Type: model.EventChatMessage, Text: "hello"})

	// The channel was closed on unregister and received nothing since
	_, open := <-alice.send
	s.False(open)
}

func (s *HubSuite) TestUnregisterIsIdempotent() {
	s.addClient("conn-1", 8)

	s.hub.Unregister("conn-1")
	s.hub.Unregister("conn-1")
	s.Equal(0, s.hub.ClientCount())
}

// TestConcurrentChurnAndDelivery hammers register/unregister churn against
// every delivery path at once. A send channel must never be closed while a
// delivery can still reach it; a violation shows up as a send-on-closed
// panic or under the race detector.
func (s *HubSuite) TestConcurrentChurnAndDelivery() {
	const (
		connections = 16
		rounds      = 200
	)

	var wg sync.WaitGroup
	for i := 0; i < connections; i++ {
		id := model.ConnID(fmt.Sprintf("conn-%d", i))

		wg.Add(2)
		go func(id model.ConnID) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				s.hub.Register(&Client{id: id, send: make(chan []byte, 1)})
				s.hub.Unregister(id)
			}
		}(id)
		go func(id model.ConnID) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				s.hub.SendTo(id, model.ServerEvent{Type: model.EventJoinSucceeded, Username: "Alice"})
				s.hub.Broadcast(model.ServerEvent{Type: model.EventChatMessage, Text: "hello"})
				s.hub.BroadcastExcept(id, model.ServerEvent{Type: model.EventUserJoined})
			}
		}(id)
	}
	wg.Wait()

	// Every connection's last action was an unregister
	s.Equal(0, s.hub.ClientCount())
}

func (s *HubSuite) TestShutdownClosesAllClients() {
	alice := s.addClient("conn-1", 8)
	bob := s.addClient("conn-2", 8)

	s.hub.Shutdown()

	s.Equal(0, s.hub.ClientCount())
	_, open := <-alice.send
	s.False(open)
	_, open = <-bob.send
	s.False(open)
}
