// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/world"
)

// Config holds every tuning constant of the AI. Distances are in pixels,
// rates are per nominal tick.
type Config struct {
	// Stuck detection and recovery.
	StuckAge        time.Duration `mapstructure:"stuckAge"`
	StuckDistance   float32       `mapstructure:"stuckDistance"`
	ReverseDuration time.Duration `mapstructure:"reverseDuration"`
	ReverseSpeed    float32       `mapstructure:"reverseSpeed"`
	SpinDuration    time.Duration `mapstructure:"spinDuration"`
	SpinRate        float32       `mapstructure:"spinRate"`

	// Path checks.
	PathSteps       int     `mapstructure:"pathSteps"`
	RecheckSpacing  float32 `mapstructure:"recheckSpacing"`
	RecheckMinSteps int     `mapstructure:"recheckMinSteps"`
	AvoidSwamps     bool    `mapstructure:"avoidSwamps"`

	// Waypoint lifecycle.
	WaypointRadius       float32       `mapstructure:"waypointRadius"`
	WaypointTimeout      time.Duration `mapstructure:"waypointTimeout"`
	TimeoutCooldown      time.Duration `mapstructure:"timeoutCooldown"`
	SuccessCooldown      time.Duration `mapstructure:"successCooldown"`
	FailureCooldown      time.Duration `mapstructure:"failureCooldown"`
	InvalidationRange    float32       `mapstructure:"invalidationRange"`
	InvalidationLimit    int           `mapstructure:"invalidationLimit"`
	InvalidationCooldown time.Duration `mapstructure:"invalidationCooldown"`
	ReplanInterval       time.Duration `mapstructure:"replanInterval"`
	ReplanSlack          float32       `mapstructure:"replanSlack"`
	MaxWaypoints         int           `mapstructure:"maxWaypoints"`
	MaxQueue             int           `mapstructure:"maxQueue"`
	Lookahead            float32       `mapstructure:"lookahead"`
	ExtensionSteps       int           `mapstructure:"extensionSteps"`
	ExtensionCooldown    time.Duration `mapstructure:"extensionCooldown"`

	// Waypoint strategies.
	GridMargin        float32 `mapstructure:"gridMargin"`
	GridExploreLimit  int     `mapstructure:"gridExploreLimit"`
	RingCandidates    int     `mapstructure:"ringCandidates"`
	RingMargin        float32 `mapstructure:"ringMargin"`
	ClusterCorridor   float32 `mapstructure:"clusterCorridor"`
	ClusterCandidates int     `mapstructure:"clusterCandidates"`
	ClusterMargin     float32 `mapstructure:"clusterMargin"`
	GapCorridor       float32 `mapstructure:"gapCorridor"`
	GapClearance      float32 `mapstructure:"gapClearance"`
	DetourRadius      float32 `mapstructure:"detourRadius"`
	DetourMargin      float32 `mapstructure:"detourMargin"`

	// Combat.
	MinDistance          float32     `mapstructure:"minDistance"`
	OptimalDistance      float32     `mapstructure:"optimalDistance"`
	MaxDistance          float32     `mapstructure:"maxDistance"`
	HoldJitter           world.Angle `mapstructure:"holdJitter"`
	TurnRate             float32     `mapstructure:"turnRate"`
	AlignedAngle         world.Angle `mapstructure:"alignedAngle"`
	StandOff             float32     `mapstructure:"standOff"`
	LeadFactor           float32     `mapstructure:"leadFactor"`
	ObstacleFireRange    float32     `mapstructure:"obstacleFireRange"`
	ObstacleFireChance   float32     `mapstructure:"obstacleFireChance"`
	ObstacleFireAccuracy float32     `mapstructure:"obstacleFireAccuracy"`
	FireRange            float32     `mapstructure:"fireRange"`
}

func DefaultConfig() Config {
	return Config{
		StuckAge:        2 * time.Second,
		StuckDistance:   20,
		ReverseDuration: time.Second,
		ReverseSpeed:    0.8,
		SpinDuration:    1500 * time.Millisecond,
		SpinRate:        3,

		PathSteps:       20,
		RecheckSpacing:  20,
		RecheckMinSteps: 10,
		AvoidSwamps:     true,

		WaypointRadius:       50,
		WaypointTimeout:      10 * time.Second,
		TimeoutCooldown:      time.Second,
		SuccessCooldown:      750 * time.Millisecond,
		FailureCooldown:      2 * time.Second,
		InvalidationRange:    300,
		InvalidationLimit:    3,
		InvalidationCooldown: 2 * time.Second,
		ReplanInterval:       5 * time.Second,
		ReplanSlack:          1.5,
		MaxWaypoints:         5,
		MaxQueue:             3,
		Lookahead:            200,
		ExtensionSteps:       2,
		ExtensionCooldown:    1500 * time.Millisecond,

		GridMargin:        10,
		GridExploreLimit:  200,
		RingCandidates:    16,
		RingMargin:        15,
		ClusterCorridor:   150,
		ClusterCandidates: 12,
		ClusterMargin:     40,
		GapCorridor:       200,
		GapClearance:      30,
		DetourRadius:      300,
		DetourMargin:      100,

		MinDistance:          120,
		OptimalDistance:      180,
		MaxDistance:          300,
		HoldJitter:           0.15,
		TurnRate:             2.2,
		AlignedAngle:         world.Pi / 3,
		StandOff:             50,
		LeadFactor:           2,
		ObstacleFireRange:    600,
		ObstacleFireChance:   0.2,
		ObstacleFireAccuracy: 0.4,
		FireRange:            1000,
	}
}
