// Package mqtt provides MQTT client connectivity for the smart-home backend.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is the sync channel between the backend and the physical devices.
// Both directions share the per-device topic space
// project/home/{device_id}/{method}; the payload envelope's sender field
// tells backend-originated traffic apart from device-originated traffic.
//
//	Backend ↔ MQTT Broker ↔ Smart-Home Devices
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all device traffic
//	err = client.Subscribe(mqtt.Topics{}.AllDevices(), 2,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish command
//	topic := mqtt.Topics{}.Device("light-1", mqtt.MethodAction)
//	client.Publish(topic, []byte(`{"sender":"backend","contents":{"status":"on"}}`), 2, false)
package mqtt
