//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package a2a

const (
	// DataPartMetadataTypeKey is the metadata key for DataPart type.
	DataPartMetadataTypeKey = "type"

	// DataPartMetadataTypeFunctionCall marks a DataPart holding a function call.
	DataPartMetadataTypeFunctionCall = "function_call"

	// DataPartMetadataTypeFunctionResp marks a DataPart holding a function response.
	DataPartMetadataTypeFunctionResp = "function_response"

	// ToolCallFieldID is the data field of the tool call id.
	ToolCallFieldID = "id"

	// ToolCallFieldName is the data field of the tool name.
	ToolCallFieldName = "name"

	// ToolCallFieldArgs is the data field of the tool call arguments.
	ToolCallFieldArgs = "args"

	// ToolCallFieldResponse is the data field of the tool response.
	ToolCallFieldResponse = "response"

	// ADKMetadataKeyPrefix is the prefix for ADK-compatible metadata keys.
	ADKMetadataKeyPrefix = "adk_"

	// MessageMetadataAuthorKey carries the author of an agent message.
	MessageMetadataAuthorKey = "adk_author"
)

// GetADKMetadataKey returns the ADK-compatible metadata key with "adk_" prefix.
// For example, GetADKMetadataKey("app_name") returns "adk_app_name".
func GetADKMetadataKey(key string) string {
	if key == "" {
		return ""
	}
	return ADKMetadataKeyPrefix + key
}

// DataPartType returns the DataPart type from metadata, preferring the
// ADK-compatible key over the plain one.
func DataPartType(metadata map[string]any) string {
	if metadata == nil {
		return ""
	}
	if v, ok := metadata[GetADKMetadataKey(DataPartMetadataTypeKey)].(string); ok && v != "" {
		return v
	}
	if v, ok := metadata[DataPartMetadataTypeKey].(string); ok {
		return v
	}
	return ""
}
