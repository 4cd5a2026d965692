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

// Package ap2go provides version information for ap2-go and the protocol
// revisions it implements.
package ap2go

const (
	// Version is the current version of ap2-go
	Version = "1.0.0"

	// AP2Version is the Agent Payments Protocol revision this library implements
	AP2Version = "v1"

	// A2AProtocolVersion is the A2A Protocol specification version used for
	// agent-to-agent transport
	A2AProtocolVersion = "0.3.0"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	AP2GoVersion       string
	AP2Version         string
	A2AProtocolVersion string
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		AP2GoVersion:       Version,
		AP2Version:         AP2Version,
		A2AProtocolVersion: A2AProtocolVersion,
	}
}
