package event

import (
	"fmt"
	"reflect"

	messagebus "github.com/vardius/message-bus"
	"vincit.fi/game-shelf/api"
	"vincit.fi/game-shelf/api/apitype"
	"vincit.fi/game-shelf/common/logger"
)

// Dispatcher runs fn on the thread owning the user interface.
type Dispatcher func(fn func())

type Broker struct {
	bus messagebus.MessageBus
}

func InitBus(queueSize int) *Broker {
	return &Broker{
		bus: messagebus.New(queueSize),
	}
}

func (s *Broker) Subscribe(topic api.Topic, fn interface{}) {
	if err := s.bus.Subscribe(string(topic), fn); err != nil {
		logger.Error.Panicf("Could not subscribe to '%s': %s", topic, err)
	}
}

func (s *Broker) ConnectToGui(topic api.Topic, dispatch Dispatcher, callback interface{}) {
	cb := func(params ...interface{}) {
		dispatch(func() {
			args := make([]reflect.Value, 0, len(params))
			for _, param := range params {
				args = append(args, reflect.ValueOf(param))
			}
			logger.Trace.Printf("Calling topic '%s' with: %s", topic, params)
			reflect.ValueOf(callback).Call(args)
		})
	}
	if err := s.bus.Subscribe(string(topic), cb); err != nil {
		logger.Error.Panicf("Could not subscribe to '%s': %s", topic, err)
	}
}

func (s *Broker) SendToTopic(topic api.Topic) {
	logger.Trace.Printf("Sending to '%s'", topic)
	s.bus.Publish(string(topic))
}

func (s *Broker) SendCommandToTopic(topic api.Topic, command apitype.Command) {
	logger.Trace.Printf("Sending command to '%s'", topic)
	s.bus.Publish(string(topic), command)
}

func (s *Broker) SendError(message string, err error) {
	formattedMessage := message
	if err != nil {
		formattedMessage = fmt.Sprintf("%s\n%s", message, err.Error())
	}
	logger.Error.Printf("Error: %s", formattedMessage)
	s.SendCommandToTopic(api.ShowError, &api.ErrorCommand{Message: message, Err: err})
}

func (s *Broker) Close(topics ...api.Topic) {
	for _, topic := range topics {
		s.bus.Close(string(topic))
	}
}
