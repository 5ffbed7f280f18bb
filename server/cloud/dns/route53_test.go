// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var _ DNS = (*Route53DNS)(nil)

func TestRelayHost(t *testing.T) {
	assert.Equal(t, "relay-us-east-1-2.example.com", RelayHost("us-east-1", 2, "example.com"))
}
