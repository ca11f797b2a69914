/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

// Plant is a nuclear power plant with a number of identical units.
type Plant struct {
	Name  string
	Code  string
	Units int
}

// DefaultPlants are the four operating Ukrainian plants, fifteen units in total.
var DefaultPlants = []Plant{
	{Name: "Zaporizhzhia", Code: "ZNPP", Units: 6},
	{Name: "Rivne", Code: "RNPP", Units: 4},
	{Name: "South Ukraine", Code: "SUNPP", Units: 3},
	{Name: "Khmelnytskyi", Code: "KhNPP", Units: 2},
}

const (
	nominalFlux      = 1000.0
	nominalPressure  = 16.0
	nominalRadiation = 10.0
	// stressProbability is the chance per tick that a normal unit enters a stress episode.
	stressProbability = 0.01
	stressTicks       = 10
)

type mode int

const (
	normal mode = iota
	stress
)

// Reactor is the simulated state of one unit.
type Reactor struct {
	UnitID      string
	flux        float64
	power       float64
	tempInlet   float64
	tempOutlet  float64
	pressure    float64
	rodPosition float64
	radiation   float64
	mode        mode
	remaining   int
}

// NewReactor returns a unit at its nominal operating point.
func NewReactor(code string, unit int) *Reactor {
	return &Reactor{
		UnitID:      fmt.Sprintf("%s-%d", code, unit),
		flux:        nominalFlux,
		power:       1000.0,
		tempInlet:   290.0,
		tempOutlet:  320.0,
		pressure:    nominalPressure,
		rodPosition: 80.0,
		radiation:   nominalRadiation,
	}
}

// NewReactors returns one reactor per unit of the given plants.
func NewReactors(plants []Plant) []*Reactor {
	var reactors []*Reactor
	for _, p := range plants {
		for i := 1; i <= p.Units; i++ {
			reactors = append(reactors, NewReactor(p.Code, i))
		}
	}
	return reactors
}

// Stressed returns true during a stress episode.
func (r *Reactor) Stressed() bool {
	return r.mode == stress
}

// Step advances the unit by one tick. Stress episodes push pressure, flux and radiation up;
// otherwise the unit drifts back towards its nominal values.
func (r *Reactor) Step(rng *rand.Rand) {
	if r.mode == normal && rng.Float64() < stressProbability {
		r.mode = stress
		r.remaining = stressTicks
	}

	if r.mode == stress {
		r.pressure += uniform(rng, 0.1, 0.5)
		r.flux += uniform(rng, 10, 50)
		r.radiation += uniform(rng, 0.5, 2.0)
		r.remaining--
		if r.remaining <= 0 {
			r.mode = normal
		}
	} else {
		r.pressure += uniform(rng, -0.1, 0.1)
		r.pressure = driftTowards(rng, r.pressure, nominalPressure)
		r.flux = driftTowards(rng, r.flux, nominalFlux)
		r.radiation = driftTowards(rng, r.radiation, nominalRadiation)
	}

	r.power = r.flux * 0.95
	r.tempInlet += uniform(rng, -0.5, 0.5)
	r.tempOutlet = r.tempInlet + r.power/30.0
	r.radiation = math.Max(0.1, r.radiation)
}

// Reading returns the current state of the unit as a telemetry reading taken at the given time.
func (r *Reactor) Reading(at time.Time) telemetry.Reading {
	return telemetry.Reading{
		UnitID:             r.UnitID,
		Timestamp:          at.UnixMilli(),
		NeutronFlux:        round2(r.flux),
		ReactorPower:       round2(r.power),
		CoolantTempInlet:   round2(r.tempInlet),
		CoolantTempOutlet:  round2(r.tempOutlet),
		ReactorPressure:    round2(r.pressure),
		ControlRodPosition: int32(r.rodPosition),
		RadiationLevel:     round2(r.radiation),
	}
}

func driftTowards(rng *rand.Rand, current, target float64) float64 {
	return current + (target-current)*0.1 + uniform(rng, -0.05, 0.05)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
