package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brainnova_chat_queries_total",
		Help: "Chat queries served, by resolved intent.",
	}, []string{"intent"})

	indexComputationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brainnova_index_computations_total",
		Help: "Global index computations served, by score source.",
	}, []string{"source"})

	knowledgeSearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brainnova_knowledge_searches_total",
		Help: "Knowledge base searches served.",
	})
)
