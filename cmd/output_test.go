package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kass/mercator-puzzle/pkg/models"
)

func TestReportPaint(t *testing.T) {
	plain := &report{}
	assert.Equal(t, "! Spain", plain.paint(toneAlert, "! Spain"))

	colored := &report{color: true}
	assert.Equal(t, "\033[31m! Spain\033[0m", colored.paint(toneAlert, "! Spain"))
}

func TestReportLine(t *testing.T) {
	var buf bytes.Buffer
	r := &report{out: &buf}

	r.line("%s %d", "lap", 3)
	assert.Equal(t, "lap 3\n", buf.String())
}

func TestFormatLatLng(t *testing.T) {
	assert.Equal(t, "(40.4168, -3.7038)", formatLatLng(models.LatLng{Lat: 40.4168, Lng: -3.7038}))
}
