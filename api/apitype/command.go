package apitype

// Command is any payload published to a topic.
type Command interface{}
