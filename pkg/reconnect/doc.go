// Package reconnect provides BLE central link lifecycle management for the
// ANCS consumer.
//
// This package handles:
//   - Exponential backoff for reconnection attempts
//   - Jitter to prevent thundering herd when many consumers reconnect at once
//   - Link state tracking
//   - Automatic reconnection after the peripheral disappears
//
// # Reconnection Strategy
//
// When the link to the bonded peripheral is lost, the client uses exponential
// backoff:
//
//  1. Initial delay: 1 second
//  2. Exponential increase: 2s, 4s, 8s, 16s, 32s
//  3. Maximum delay: 60 seconds
//  4. Continue at 60s until successful
//  5. Reset to 1s on successful reconnection
//
// # Jitter
//
// To prevent thundering herd when multiple consumers reconnect:
//
//	actual_delay = base_delay + random(0, base_delay * 0.25)
//
// # Success Criteria
//
// A reconnection is successful when:
//   - The peripheral is rediscovered and connected
//   - GATT service discovery completes
//   - The Notification Source and Control Point characteristics are found
//
// A successful link that later drops again (e.g. NS unsubscribed by the
// peripheral) does not reset backoff retroactively; backoff only resets once
// ConnectFunc itself returns nil.
package reconnect
