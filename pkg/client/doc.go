// Copyright (C) 2025 Voyager Labs
//
// This file is part of ap2-go.
//
// ap2-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ap2-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ap2-go.  If not, see <https://www.gnu.org/licenses/>.

// Package client is the outbound half of the AP2 transport: an HTTP client
// that wraps A2A messages in JSON-RPC envelopes, stamps the AP2 extension
// headers, and unwraps the reply. The client never retries on its own;
// mandate submission is not idempotent without the receiver's dedup, so retry
// policy belongs to the caller.
package client
