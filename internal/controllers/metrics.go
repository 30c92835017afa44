package controllers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var approvalTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "approval_transitions_total",
		Help: "Total number of approval workflow transitions",
	},
	[]string{"kind", "action"},
)
