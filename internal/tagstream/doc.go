// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tagstream extracts inline display tags from streamed model output.
//
// Model replies arrive as arbitrary fragments. A reply may contain control
// tags of the form
//
//	[DISPLAY_SYSTEM: ENGINES]
//
// which must be removed from the visible text and turned into a Visual
// event. The Parser buffers only as much trailing text as could still turn
// into a tag, so ordinary text is forwarded as soon as it is known to be
// safe.
//
// # Guarantees
//
//   - No input character is dropped.
//   - Concatenated Text payloads equal the input with every complete tag
//     excised.
//   - A syntactically complete tag is never emitted as text.
//   - The coalesced event sequence does not depend on how the input was
//     split into chunks.
//
// # Usage
//
//	p := tagstream.New()
//	for chunk := range chunks {
//	    for _, ev := range p.Feed(chunk) {
//	        handle(ev)
//	    }
//	}
//	for _, ev := range p.Flush() {
//	    handle(ev)
//	}
package tagstream
