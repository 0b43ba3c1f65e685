// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "github.com/tidwall/gjson"

// =============================================================================
// AGENTS
// =============================================================================

// PerformanceMetrics is the performance block attached to an agent.
type PerformanceMetrics struct {
	DecisionsMade    uint64
	AccuracyRate     float64
	ResponseTimeMs   uint64
	ThreatsMitigated uint64
	AutonomyScore    float64
}

// Agent is one entry of the agent list or an agent status reply.
type Agent struct {
	ID         string
	Name       string
	Type       string
	Status     string
	Privileges string

	Metrics PerformanceMetrics
	// HasMetrics is false when performance_metrics is absent or not an object.
	HasMetrics bool
}

func decodeAgent(r gjson.Result, placeholder string) Agent {
	a := Agent{
		ID:         str(r, "id", ""),
		Name:       str(r, "name", placeholder),
		Type:       str(r, "agent_type", placeholder),
		Status:     str(r, "status", ""),
		Privileges: str(r, "privileges", placeholder),
	}
	m, ok := object(r, "performance_metrics")
	a.HasMetrics = ok
	a.Metrics = PerformanceMetrics{
		DecisionsMade:    uint64Of(m, "decisions_made"),
		AccuracyRate:     float(m, "accuracy_rate"),
		ResponseTimeMs:   uint64Of(m, "response_time_ms"),
		ThreatsMitigated: uint64Of(m, "threats_mitigated"),
		AutonomyScore:    float(m, "autonomy_score"),
	}
	return a
}

// DecodeAgents reads an agent list. Anything but an array yields no agents.
func DecodeAgents(raw []byte) []Agent {
	root := parse(raw)
	if !root.IsArray() {
		return nil
	}
	var agents []Agent
	for _, item := range root.Array() {
		agents = append(agents, decodeAgent(item, ""))
	}
	return agents
}

// DecodeAgentStatus reads a single agent status reply.
func DecodeAgentStatus(raw []byte) Agent {
	return decodeAgent(parse(raw), "Unknown")
}

// CreatedAgent is the reply to an agent creation.
type CreatedAgent struct {
	AgentID string
}

// DecodeCreatedAgent reads an agent creation reply.
func DecodeCreatedAgent(raw []byte) CreatedAgent {
	return CreatedAgent{AgentID: str(parse(raw), "agent_id", "unknown")}
}

// TaskResult is the reply to a task execution.
type TaskResult struct {
	TaskID string
}

// DecodeTaskResult reads a task execution reply.
func DecodeTaskResult(raw []byte) TaskResult {
	return TaskResult{TaskID: str(parse(raw), "task_id", "unknown")}
}

// =============================================================================
// COMPLIANCE
// =============================================================================

// Violation is one compliance violation.
type Violation struct {
	Description string
	Severity    string
	EntityID    string
	Framework   string
}

func decodeViolation(r gjson.Result) Violation {
	return Violation{
		Description: str(r, "description", "Unknown"),
		Severity:    str(r, "severity", "Unknown"),
		EntityID:    str(r, "entity_id", "Unknown"),
		Framework:   str(r, "framework", "Unknown"),
	}
}

// Assessment is the reply to a compliance assessment.
type Assessment struct {
	ComplianceScore float64
	Violations      []Violation
}

// DecodeAssessment reads a compliance assessment reply.
func DecodeAssessment(raw []byte) Assessment {
	root := parse(raw)
	a := Assessment{ComplianceScore: float(root, "compliance_score")}
	items, _ := array(root, "violations")
	for _, item := range items {
		a.Violations = append(a.Violations, decodeViolation(item))
	}
	return a
}

// DecodeViolations reads a violation list. ok is false when the reply is not
// an array.
func DecodeViolations(raw []byte) (violations []Violation, ok bool) {
	root := parse(raw)
	if !root.IsArray() {
		return nil, false
	}
	for _, item := range root.Array() {
		violations = append(violations, decodeViolation(item))
	}
	return violations, true
}

// MonitorStarted is the reply to a compliance monitoring request.
type MonitorStarted struct {
	MonitorID string
}

// DecodeMonitorStarted reads a monitoring reply.
func DecodeMonitorStarted(raw []byte) MonitorStarted {
	return MonitorStarted{MonitorID: str(parse(raw), "monitor_id", "unknown")}
}

// =============================================================================
// CONFLICTS
// =============================================================================

// Conflict is one detected conflict between two rules.
type Conflict struct {
	Rule1Text        string
	Rule2Text        string
	Severity         string
	ResolutionStatus string
}

// Detection is the reply to a conflict detection.
type Detection struct {
	Conflicts []Conflict
	// HasConflicts is false when the conflicts key is missing or not an array.
	HasConflicts bool
}

// DecodeDetection reads a conflict detection reply.
func DecodeDetection(raw []byte) Detection {
	items, ok := array(parse(raw), "conflicts")
	d := Detection{HasConflicts: ok}
	for _, item := range items {
		rule1, _ := object(item, "rule1")
		rule2, _ := object(item, "rule2")
		d.Conflicts = append(d.Conflicts, Conflict{
			Rule1Text:        str(rule1, "text", ""),
			Rule2Text:        str(rule2, "text", ""),
			Severity:         str(item, "severity", ""),
			ResolutionStatus: str(item, "resolution_status", "Pending"),
		})
	}
	return d
}

// ResolutionDetail describes how a conflict was resolved.
type ResolutionDetail struct {
	Strategy   string
	Confidence float64
	Actions    []string
	HasActions bool
}

// Resolution is the reply to a conflict resolution.
type Resolution struct {
	ResolutionID string
	Detail       *ResolutionDetail
}

// DecodeResolution reads a conflict resolution reply.
func DecodeResolution(raw []byte) Resolution {
	root := parse(raw)
	res := Resolution{ResolutionID: str(root, "resolution_id", "unknown")}
	detail, ok := object(root, "resolution")
	if !ok {
		return res
	}
	d := &ResolutionDetail{
		Strategy:   str(detail, "strategy", "Unknown"),
		Confidence: float(detail, "confidence"),
	}
	actions, hasActions := array(detail, "actions")
	d.HasActions = hasActions
	for _, a := range actions {
		if a.Type == gjson.String {
			d.Actions = append(d.Actions, a.Str)
		} else {
			d.Actions = append(d.Actions, "Unknown")
		}
	}
	res.Detail = d
	return res
}

// Pattern is a recurring conflict pattern.
type Pattern struct {
	Description string
	Frequency   uint64
}

// ConflictAnalysis is the reply to a conflict pattern analysis.
type ConflictAnalysis struct {
	TotalConflicts    uint64
	ResolvedConflicts uint64
	ResolutionRate    float64
	Patterns          []Pattern
	HasPatterns       bool
}

// DecodeConflictAnalysis reads a conflict analysis reply.
func DecodeConflictAnalysis(raw []byte) ConflictAnalysis {
	root := parse(raw)
	a := ConflictAnalysis{
		TotalConflicts:    uint64Of(root, "total_conflicts"),
		ResolvedConflicts: uint64Of(root, "resolved_conflicts"),
		ResolutionRate:    float(root, "resolution_rate"),
	}
	items, ok := array(root, "patterns")
	a.HasPatterns = ok
	for _, item := range items {
		a.Patterns = append(a.Patterns, Pattern{
			Description: str(item, "description", "Unknown"),
			Frequency:   uint64Of(item, "frequency"),
		})
	}
	return a
}

// =============================================================================
// MACHINE LEARNING
// =============================================================================

// TrainResult is the reply to a training run.
type TrainResult struct {
	ModelID             string
	Accuracy            float64
	TrainingTimeSeconds float64
}

// DecodeTrainResult reads a training reply.
func DecodeTrainResult(raw []byte) TrainResult {
	root := parse(raw)
	return TrainResult{
		ModelID:             str(root, "model_id", "unknown"),
		Accuracy:            float(root, "accuracy"),
		TrainingTimeSeconds: float(root, "training_time_seconds"),
	}
}

// ClassProbability is one class of a prediction.
type ClassProbability struct {
	Class       string
	Probability float64
}

// Prediction is the reply to a prediction request.
type Prediction struct {
	Prediction       string
	Confidence       float64
	Probabilities    []ClassProbability
	HasProbabilities bool
}

// DecodePrediction reads a prediction reply. Class probabilities are sorted
// by class name.
func DecodePrediction(raw []byte) Prediction {
	root := parse(raw)
	p := Prediction{
		Prediction: str(root, "prediction", "Unknown"),
		Confidence: float(root, "confidence"),
	}
	probs, ok := object(root, "class_probabilities")
	p.HasProbabilities = ok
	for _, e := range entries(probs) {
		v := 0.0
		if e.Value.Type == gjson.Number {
			v = e.Value.Num
		}
		p.Probabilities = append(p.Probabilities, ClassProbability{Class: e.Key, Probability: v})
	}
	return p
}

// Entity is a named entity found by text analysis.
type Entity struct {
	Text string
	Type string
}

// TextAnalysis is the reply to an NLP analysis. Which fields are meaningful
// depends on the requested analysis type.
type TextAnalysis struct {
	Classification    string
	Confidence        float64
	Sentiment         string
	SentimentScore    float64
	Entities          []Entity
	HasEntities       bool
	ConflictsDetected bool
}

// DecodeTextAnalysis reads an NLP analysis reply.
func DecodeTextAnalysis(raw []byte) TextAnalysis {
	root := parse(raw)
	a := TextAnalysis{
		Classification:    str(root, "classification", "Unknown"),
		Confidence:        float(root, "confidence"),
		Sentiment:         str(root, "sentiment", "Unknown"),
		SentimentScore:    float(root, "sentiment_score"),
		ConflictsDetected: boolean(root, "conflicts_detected"),
	}
	items, ok := array(root, "entities")
	a.HasEntities = ok
	for _, item := range items {
		a.Entities = append(a.Entities, Entity{Text: str(item, "text", ""), Type: str(item, "type", "")})
	}
	return a
}

// Model is one entry of the model catalogue.
type Model struct {
	Name        string
	Type        string
	Version     string
	Status      string
	Accuracy    float64
	LastTrained string
}

// DecodeModels reads the model catalogue. Anything but an array yields none.
func DecodeModels(raw []byte) []Model {
	root := parse(raw)
	if !root.IsArray() {
		return nil
	}
	var models []Model
	for _, item := range root.Array() {
		models = append(models, Model{
			Name:        str(item, "name", "Unknown"),
			Type:        str(item, "model_type", "Unknown"),
			Version:     str(item, "version", "Unknown"),
			Status:      str(item, "status", ""),
			Accuracy:    float(item, "accuracy"),
			LastTrained: str(item, "last_trained", "Unknown"),
		})
	}
	return models
}

// =============================================================================
// MONITORING AND STATUS
// =============================================================================

// SystemPerformance is the host section of the metrics reply.
type SystemPerformance struct {
	CPUUsage    float64
	MemoryUsage float64
	DiskUsage   float64
	NetworkIO   float64
}

// AionPerformance is the service section of the metrics reply.
type AionPerformance struct {
	ActiveAgents      uint64
	RequestsPerSecond float64
	AvgResponseTime   uint64
	ComplianceScore   float64
}

// Metrics is the reply to a metrics request. Either section may be nil.
type Metrics struct {
	System *SystemPerformance
	Aion   *AionPerformance
}

// DecodeMetrics reads a metrics reply.
func DecodeMetrics(raw []byte) Metrics {
	root := parse(raw)
	var m Metrics
	if sys, ok := object(root, "system"); ok {
		m.System = &SystemPerformance{
			CPUUsage:    float(sys, "cpu_usage"),
			MemoryUsage: float(sys, "memory_usage"),
			DiskUsage:   float(sys, "disk_usage"),
			NetworkIO:   float(sys, "network_io"),
		}
	}
	if aion, ok := object(root, "aion"); ok {
		m.Aion = &AionPerformance{
			ActiveAgents:      uint64Of(aion, "active_agents"),
			RequestsPerSecond: float(aion, "requests_per_second"),
			AvgResponseTime:   uint64Of(aion, "avg_response_time"),
			ComplianceScore:   float(aion, "compliance_score"),
		}
	}
	return m
}

// Component is the health of one server component.
type Component struct {
	Name   string
	Status string
}

func decodeComponents(root gjson.Result) ([]Component, bool) {
	obj, ok := object(root, "components")
	if !ok {
		return nil, false
	}
	var out []Component
	for _, e := range entries(obj) {
		out = append(out, Component{Name: e.Key, Status: str(e.Value, "status", "unknown")})
	}
	return out, true
}

// Health is the reply of the /health endpoint.
type Health struct {
	Status        string
	Uptime        string
	Version       string
	Components    []Component
	HasComponents bool
}

// DecodeHealth reads a health reply.
func DecodeHealth(raw []byte) Health {
	root := parse(raw)
	h := Health{
		Status:  str(root, "status", "unknown"),
		Uptime:  str(root, "uptime", "Unknown"),
		Version: str(root, "version", "Unknown"),
	}
	h.Components, h.HasComponents = decodeComponents(root)
	return h
}

// SystemStatus is the reply of the status endpoint.
type SystemStatus struct {
	Status          string
	Version         string
	Uptime          string
	ActiveAgents    uint64
	TotalRequests   uint64
	ComplianceScore float64
	Components      []Component
	HasComponents   bool
}

// DecodeSystemStatus reads a status reply.
func DecodeSystemStatus(raw []byte) SystemStatus {
	root := parse(raw)
	s := SystemStatus{
		Status:          str(root, "status", "unknown"),
		Version:         str(root, "version", "Unknown"),
		Uptime:          str(root, "uptime", "Unknown"),
		ActiveAgents:    uint64Of(root, "active_agents"),
		TotalRequests:   uint64Of(root, "total_requests"),
		ComplianceScore: float(root, "compliance_score"),
	}
	s.Components, s.HasComponents = decodeComponents(root)
	return s
}

// =============================================================================
// DEPLOYMENT AND CONFIGURATION
// =============================================================================

// DeploymentStarted is the reply to a deployment start.
type DeploymentStarted struct {
	DeploymentID string
}

// DecodeDeploymentStarted reads a deployment start reply.
func DecodeDeploymentStarted(raw []byte) DeploymentStarted {
	return DeploymentStarted{DeploymentID: str(parse(raw), "deployment_id", "unknown")}
}

// DeploymentStatus is the reply of the deployment status endpoint.
type DeploymentStatus struct {
	Environment     string
	Status          string
	ReadyReplicas   uint64
	DesiredReplicas uint64
	Image           string
	StartedAt       string
	Endpoints       []string
	HasEndpoints    bool
}

// DecodeDeploymentStatus reads a deployment status reply.
func DecodeDeploymentStatus(raw []byte) DeploymentStatus {
	root := parse(raw)
	d := DeploymentStatus{
		Environment:     str(root, "environment", "Unknown"),
		Status:          str(root, "status", ""),
		ReadyReplicas:   uint64Of(root, "ready_replicas"),
		DesiredReplicas: uint64Of(root, "desired_replicas"),
		Image:           str(root, "image", "Unknown"),
		StartedAt:       str(root, "started_at", "Unknown"),
	}
	items, ok := array(root, "endpoints")
	d.HasEndpoints = ok
	for _, item := range items {
		if item.Type == gjson.String {
			d.Endpoints = append(d.Endpoints, item.Str)
		} else {
			d.Endpoints = append(d.Endpoints, "Unknown")
		}
	}
	return d
}

// ConfigValue is the reply to a single configuration lookup. Non-string
// values read as "null".
type ConfigValue struct {
	Value string
}

// DecodeConfigValue reads a configuration lookup reply.
func DecodeConfigValue(raw []byte) ConfigValue {
	return ConfigValue{Value: str(parse(raw), "value", "null")}
}
