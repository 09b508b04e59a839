// Package command is the single funnel for device state changes.
//
// Both transports converge here: the HTTP API calls the Processor with
// publish=true so accepted changes are signalled to subscribers over the
// broker, and the MQTT ingress calls it with publish=false because the
// change already travelled the broker. Each operation validates first,
// projects metrics second, and writes the store last, so a rejected command
// leaves the store untouched.
package command
