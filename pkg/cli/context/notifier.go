/* Copyright 2025 Readnest Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package context

import "sync"

// Topic identifies a cached data set that can go stale when a mutation
// elsewhere invalidates it
type Topic string

// Notifier delivers in-process invalidation events to subscribers.
// Marking a topic stale in the database covers the next process; the
// notifier covers listeners inside this one.
type Notifier struct {
	mu   sync.Mutex
	subs map[Topic][]func(Topic)
}

// NewNotifier creates a notifier with no subscribers
func NewNotifier() *Notifier {
	return &Notifier{subs: map[Topic][]func(Topic){}}
}

// Subscribe registers a handler for invalidations of the given topic
func (n *Notifier) Subscribe(topic Topic, handler func(Topic)) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.subs[topic] = append(n.subs[topic], handler)
}

// Notify invokes the handlers subscribed to the given topic
func (n *Notifier) Notify(topic Topic) {
	n.mu.Lock()
	handlers := make([]func(Topic), len(n.subs[topic]))
	copy(handlers, n.subs[topic])
	n.mu.Unlock()

	for _, handler := range handlers {
		handler(topic)
	}
}
