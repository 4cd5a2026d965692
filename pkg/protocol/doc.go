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

// Package protocol defines the AP2 message envelope on top of A2A.
//
// Agents exchange JSON-RPC 2.0 requests whose params carry an
// a2a.MessageSendParams. Mandates travel inside the message as data parts
// keyed "ap2.mandates.<Type>"; human-readable context travels as text parts.
// The package also provides the agent card builder used by every agent's
// well-known endpoint.
package protocol
