// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "strconv"

// PassEvent is the point in the frame at which a pass runs.
//
// Passes execute in ascending PassEvent order. Passes with the same event
// run in the order they were enqueued. The gaps between values leave room
// for custom offsets such as AfterRenderingOpaques + 1.
type PassEvent int

// Frame insertion points.
const (
	BeforeRendering               PassEvent = 0
	BeforeRenderingShadows        PassEvent = 50
	AfterRenderingShadows         PassEvent = 100
	BeforeRenderingPrePasses      PassEvent = 150
	AfterRenderingPrePasses       PassEvent = 200
	BeforeRenderingGbuffer        PassEvent = 210
	AfterRenderingGbuffer         PassEvent = 220
	BeforeRenderingDeferredLights PassEvent = 230
	AfterRenderingDeferredLights  PassEvent = 240
	BeforeRenderingOpaques        PassEvent = 250
	AfterRenderingOpaques         PassEvent = 300
	BeforeRenderingSkybox         PassEvent = 350
	AfterRenderingSkybox          PassEvent = 400
	BeforeRenderingTransparents   PassEvent = 450
	AfterRenderingTransparents    PassEvent = 500
	BeforeRenderingPostProcessing PassEvent = 550
	AfterRenderingPostProcessing  PassEvent = 600
	AfterRendering                PassEvent = 1000
)

var passEventNames = map[PassEvent]string{
	BeforeRendering:               "BeforeRendering",
	BeforeRenderingShadows:        "BeforeRenderingShadows",
	AfterRenderingShadows:         "AfterRenderingShadows",
	BeforeRenderingPrePasses:      "BeforeRenderingPrePasses",
	AfterRenderingPrePasses:       "AfterRenderingPrePasses",
	BeforeRenderingGbuffer:        "BeforeRenderingGbuffer",
	AfterRenderingGbuffer:         "AfterRenderingGbuffer",
	BeforeRenderingDeferredLights: "BeforeRenderingDeferredLights",
	AfterRenderingDeferredLights:  "AfterRenderingDeferredLights",
	BeforeRenderingOpaques:        "BeforeRenderingOpaques",
	AfterRenderingOpaques:         "AfterRenderingOpaques",
	BeforeRenderingSkybox:         "BeforeRenderingSkybox",
	AfterRenderingSkybox:          "AfterRenderingSkybox",
	BeforeRenderingTransparents:   "BeforeRenderingTransparents",
	AfterRenderingTransparents:    "AfterRenderingTransparents",
	BeforeRenderingPostProcessing: "BeforeRenderingPostProcessing",
	AfterRenderingPostProcessing:  "AfterRenderingPostProcessing",
	AfterRendering:                "AfterRendering",
}

// String returns the event name, or the numeric value for custom offsets.
func (e PassEvent) String() string {
	if name, ok := passEventNames[e]; ok {
		return name
	}
	return "PassEvent(" + strconv.Itoa(int(e)) + ")"
}
