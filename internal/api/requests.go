// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/url"
)

// Endpoint paths, relative to the server root.
const (
	PathAgents            = "/api/v1/agents"
	PathAgentCreate       = "/api/v1/agents/create"
	PathComplianceAssess  = "/api/v1/compliance/assess"
	PathComplianceMonitor = "/api/v1/compliance/monitor"
	PathComplianceReport  = "/api/v1/compliance/report"
	PathViolations        = "/api/v1/compliance/violations"
	PathConflictsDetect   = "/api/v1/conflicts/detect"
	PathConflictsAnalyze  = "/api/v1/conflicts/analyze"
	PathConflictsGraph    = "/api/v1/conflicts/graph"
	PathMLTrain           = "/api/v1/ml/train"
	PathMLPredict         = "/api/v1/ml/predict"
	PathMLModels          = "/api/v1/ml/models"
	PathNLPAnalyze        = "/api/v1/nlp/analyze"
	PathMetrics           = "/api/v1/monitoring/metrics"
	PathLogs              = "/api/v1/monitoring/logs"
	PathHealth            = "/health"
	PathDeployStart       = "/api/v1/deploy/start"
	PathDeployStop        = "/api/v1/deploy/stop"
	PathDeployScale       = "/api/v1/deploy/scale"
	PathDeployUpdate      = "/api/v1/deploy/update"
	PathDeployStatus      = "/api/v1/deploy/status"
	PathConfig            = "/api/v1/config"
	PathConfigSet         = "/api/v1/config/set"
	PathConfigGet         = "/api/v1/config/get"
	PathConfigReset       = "/api/v1/config/reset"
	PathStatus            = "/api/v1/status"
)

// AgentPath returns /api/v1/agents/{id}/{action}. The id is escaped as a
// single path segment.
func AgentPath(id, action string) string {
	return PathAgents + "/" + url.PathEscape(id) + "/" + action
}

// ConflictResolvePath returns /api/v1/conflicts/{id}/resolve.
func ConflictResolvePath(id string) string {
	return "/api/v1/conflicts/" + url.PathEscape(id) + "/resolve"
}

// =============================================================================
// AGENTS
// =============================================================================

// AgentConfiguration is the configuration block of a new agent.
type AgentConfiguration struct {
	AutoUpdate             bool `json:"auto_update"`
	UnrestrictedMode       bool `json:"unrestricted_mode"`
	PrivilegeAutoElevation bool `json:"privilege_auto_elevation"`
}

// CreateAgentRequest is the body of an agent creation.
type CreateAgentRequest struct {
	Name          string             `json:"name"`
	AgentType     string             `json:"agent_type"`
	Privileges    string             `json:"privileges"`
	Capabilities  []string           `json:"capabilities"`
	Configuration AgentConfiguration `json:"configuration"`
}

// NewCreateAgentRequest derives capabilities and configuration from the
// autonomy switch.
func NewCreateAgentRequest(name, agentType, privileges string, autonomous bool) CreateAgentRequest {
	capabilities := []string{"RealTimeAnalysis", "PredictiveModeling"}
	if autonomous {
		capabilities = []string{"AutonomousDecisionMaking", "SystemModification", "PolicyCreation", "UnrestrictedExecution"}
	}
	return CreateAgentRequest{
		Name:         name,
		AgentType:    agentType,
		Privileges:   privileges,
		Capabilities: capabilities,
		Configuration: AgentConfiguration{
			AutoUpdate:             true,
			UnrestrictedMode:       autonomous,
			PrivilegeAutoElevation: autonomous,
		},
	}
}

// ExecuteTaskRequest is the body of a task execution.
type ExecuteTaskRequest struct {
	TaskType    string                 `json:"task_type"`
	Priority    string                 `json:"priority"`
	AutoExecute bool                   `json:"auto_execute"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// NewExecuteTaskRequest builds an auto-executing task with no parameters.
func NewExecuteTaskRequest(taskType, priority string) ExecuteTaskRequest {
	return ExecuteTaskRequest{
		TaskType:    taskType,
		Priority:    priority,
		AutoExecute: true,
		Parameters:  map[string]interface{}{},
	}
}

// =============================================================================
// COMPLIANCE
// =============================================================================

// AssessmentRequest is the body of a compliance assessment.
type AssessmentRequest struct {
	EntityID           string `json:"entity_id"`
	Framework          string `json:"framework"`
	AssessmentType     string `json:"assessment_type"`
	IncludePredictions bool   `json:"include_predictions"`
}

// MonitorRequest is the body of a compliance monitoring request.
type MonitorRequest struct {
	Regulations         []string `json:"regulations"`
	MonitoringFrequency string   `json:"monitoring_frequency"`
	AlertThreshold      float64  `json:"alert_threshold"`
}

// ReportRequest is the body of a report generation. A nil EntityID is sent
// as null.
type ReportRequest struct {
	EntityID               *string `json:"entity_id"`
	Format                 string  `json:"format"`
	IncludeCharts          bool    `json:"include_charts"`
	IncludeRecommendations bool    `json:"include_recommendations"`
}

// =============================================================================
// CONFLICTS
// =============================================================================

// DetectRequest is the body of a conflict detection. Rules is forwarded as
// read from the rules file.
type DetectRequest struct {
	Rules               json.RawMessage `json:"rules"`
	DetectionAlgorithm  string          `json:"detection_algorithm"`
	ConfidenceThreshold float64         `json:"confidence_threshold"`
}

// ResolveRequest is the body of a conflict resolution.
type ResolveRequest struct {
	ConflictID         string `json:"conflict_id"`
	ResolutionStrategy string `json:"resolution_strategy"`
	AutoApply          bool   `json:"auto_apply"`
}

// AnalyzeConflictsRequest is the body of a conflict pattern analysis.
type AnalyzeConflictsRequest struct {
	Timeframe       string `json:"timeframe"`
	IncludePatterns bool   `json:"include_patterns"`
	IncludeTrends   bool   `json:"include_trends"`
}

// GraphRequest is the body of a conflict graph export.
type GraphRequest struct {
	OutputFormat           string `json:"output_format"`
	IncludeResolutionPaths bool   `json:"include_resolution_paths"`
	Layout                 string `json:"layout"`
}

// =============================================================================
// MACHINE LEARNING
// =============================================================================

// Hyperparameters of a training run.
type Hyperparameters struct {
	Epochs       uint32  `json:"epochs"`
	LearningRate float64 `json:"learning_rate"`
	BatchSize    int     `json:"batch_size"`
}

// TrainRequest is the body of a training run.
type TrainRequest struct {
	ModelType       string          `json:"model_type"`
	TrainingData    json.RawMessage `json:"training_data"`
	Hyperparameters Hyperparameters `json:"hyperparameters"`
	ValidationSplit float64         `json:"validation_split"`
}

// NewTrainRequest uses the fixed learning rate, batch size and validation
// split the server expects.
func NewTrainRequest(modelType string, data json.RawMessage, epochs uint32) TrainRequest {
	return TrainRequest{
		ModelType:    modelType,
		TrainingData: data,
		Hyperparameters: Hyperparameters{
			Epochs:       epochs,
			LearningRate: 0.001,
			BatchSize:    64,
		},
		ValidationSplit: 0.2,
	}
}

// PredictRequest is the body of a prediction.
type PredictRequest struct {
	ModelName        string `json:"model_name"`
	Input            string `json:"input"`
	ReturnConfidence bool   `json:"return_confidence"`
}

// TextAnalysisRequest is the body of an NLP analysis.
type TextAnalysisRequest struct {
	Text                string  `json:"text"`
	AnalysisType        string  `json:"analysis_type"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}

// =============================================================================
// DEPLOYMENT AND CONFIGURATION
// =============================================================================

// DeployRequest is the body of a deployment start.
type DeployRequest struct {
	Environment    string `json:"environment"`
	Replicas       uint32 `json:"replicas"`
	AutonomousMode bool   `json:"autonomous_mode"`
	AutoScaling    bool   `json:"auto_scaling"`
	Monitoring     bool   `json:"monitoring"`
}

// ScaleRequest is the body of a scale operation.
type ScaleRequest struct {
	Replicas    uint32 `json:"replicas"`
	AutoScaling bool   `json:"auto_scaling"`
}

// UpdateRequest is the body of a deployment update.
type UpdateRequest struct {
	Image    string `json:"image"`
	Strategy string `json:"strategy"`
}

// ConfigSetRequest is the body of a configuration change.
type ConfigSetRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
