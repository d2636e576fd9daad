package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"ai-triage-be/pkg/triage"
)

const (
	// Deterministic decoding, bounded output. One attempt per request.
	promptTemperature = 0.1
	promptMaxTokens   = 1000
)

const triagePromptTemplate = `Você é um sistema de inteligência artificial especializado em triagem hospitalar baseado no Protocolo de Manchester.

DADOS DO PACIENTE:
%s

SINTOMAS RELATADOS:
%s

INSTRUÇÕES:
1. Analise os sintomas usando os critérios do Protocolo de Manchester
2. Classifique o risco em: Verde (baixo), Amarelo (moderado), Laranja (alto), Vermelho (crítico)
3. Determine a confiabilidade da sua análise (0-100)
4. Recomende a próxima ação baseada na combinação risco x confiabilidade
%s
CRITÉRIOS DE DECISÃO:
- Confiabilidade > 85%% e Risco Verde/Amarelo: LIBERAÇÃO DIRETA
- Confiabilidade 60-85%% OU Risco Laranja: REVISÃO MÉDICA
- Confiabilidade < 60%% OU Risco Vermelho: ATENDIMENTO IMEDIATO

Responda APENAS em formato JSON válido:
{
    "risk_level": "Verde|Amarelo|Laranja|Vermelho",
    "confidence": 0-100,
    "reasoning": "explicação detalhada da análise",
    "recommendation": "recomendação clara para o paciente",
    "next_action": "direct|review|immediate",
    "symptoms_summary": "resumo estruturado dos sintomas",
    "priority_score": 0-100%s
}`

const conversationInstruction = `5. Se a confiabilidade for 85 ou menos, formule UMA pergunta objetiva que mais aumentaria a confiabilidade da análise
`

const conversationField = `,
    "next_question": "próxima pergunta ao paciente, ou vazio se nenhuma for necessária"`

// buildPrompt embeds the patient context and symptom text in the fixed
// instruction payload. Missing attributes are rendered as explicit
// placeholders rather than omitted, so the model never guesses at absence.
func buildPrompt(symptomsText string, patient *triage.PatientContext, conversational bool) string {
	age := "não informada"
	bloodType := "não informado"
	allergies := "nenhuma conhecida"

	if patient != nil {
		if patient.Age > 0 {
			age = strconv.Itoa(patient.Age)
		}
		if strings.TrimSpace(patient.BloodType) != "" {
			bloodType = patient.BloodType
		}
		if strings.TrimSpace(patient.Allergies) != "" {
			allergies = patient.Allergies
		}
	}
	patientContext := fmt.Sprintf("Idade: %s, Tipo sanguíneo: %s, Alergias: %s", age, bloodType, allergies)

	instruction := ""
	field := ""
	if conversational {
		instruction = conversationInstruction
		field = conversationField
	}

	return fmt.Sprintf(triagePromptTemplate, patientContext, symptomsText, instruction, field)
}
