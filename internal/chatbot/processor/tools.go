package processor

import (
	"github.com/openai/openai-go"
)

// Tool names the model may call.
const (
	ToolObtenerTiposTramites      = "obtenerTiposTramites"
	ToolConsultarTramite          = "consultarTramite"
	ToolCrearTramite              = "crearTramite"
	ToolConsultarEstatusSanitario = "consultarEstatusSanitario"
	ToolConsultarGanado           = "consultarGanado"
	ToolConsultarInventario       = "consultarInventario"
)

// toolCatalog is the fixed set of functions offered on every completion
// request. Descriptions are what the model reasons over; keep them precise.
var toolCatalog = []openai.ChatCompletionToolParam{
	{
		Function: openai.FunctionDefinitionParam{
			Name:        ToolObtenerTiposTramites,
			Description: openai.String("Obtiene los requisitos y etapas de los trámites: Pruebas de Ganado, Movilización y Exportación."),
			Parameters: openai.FunctionParameters{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	},
	{
		Function: openai.FunctionDefinitionParam{
			Name:        ToolConsultarTramite,
			Description: openai.String("Consulta el estado y etapa actual de un trámite (Movilización, Exportación o Pruebas)."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]interface{}{
					"tramite_id": map[string]interface{}{
						"type":        "string",
						"description": "Folio del trámite (ej: TRM-2026-001)",
					},
				},
				"required": []string{"tramite_id"},
			},
		},
	},
	{
		Function: openai.FunctionDefinitionParam{
			Name:        ToolCrearTramite,
			Description: openai.String("Inicia un nuevo proceso de Movilización, Exportación o Pruebas Sanitarias."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]interface{}{
					"tipo": map[string]interface{}{
						"type": "string",
						"enum": []string{"PRUEBAS_GANADO", "MOVILIZACION", "EXPORTACION"},
					},
					"uppId": map[string]interface{}{
						"type":        "string",
						"description": "Clave UPP de 12 dígitos",
					},
					"observaciones": map[string]interface{}{
						"type": "string",
					},
				},
				"required": []string{"tipo", "uppId"},
			},
		},
	},
	{
		Function: openai.FunctionDefinitionParam{
			Name:        ToolConsultarEstatusSanitario,
			Description: openai.String("Verifica si la UPP tiene las pruebas de sanidad vigentes (requisito para movilizar/exportar)."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]interface{}{
					"uppId": map[string]interface{}{
						"type":        "string",
						"description": "Clave de 12 dígitos de la UPP",
					},
				},
				"required": []string{"uppId"},
			},
		},
	},
	{
		Function: openai.FunctionDefinitionParam{
			Name:        ToolConsultarGanado,
			Description: openai.String("Lista el ganado registrado del productor con arete, raza y estado de salud."),
			Parameters: openai.FunctionParameters{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	},
	{
		Function: openai.FunctionDefinitionParam{
			Name:        ToolConsultarInventario,
			Description: openai.String("Consulta los insumos del inventario con existencias bajas."),
			Parameters: openai.FunctionParameters{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	},
}
