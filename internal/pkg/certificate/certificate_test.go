package certificate

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ProducesValidPDF(t *testing.T) {
	gen := NewGenerator("Plataforma de Cursos")

	pdf, err := gen.Generate(Data{
		StudentName: "Maria Silva",
		CourseTitle: "Node.js Avançado",
		IssuedAt:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-1.4")), "output must start with a PDF header")
	assert.True(t, bytes.HasSuffix(bytes.TrimSpace(pdf), []byte("%%EOF")), "output must end with an EOF marker")

	assert.Contains(t, string(pdf), "Maria Silva")
	assert.Contains(t, string(pdf), "15/06/2025")
	assert.Contains(t, string(pdf), "Plataforma de Cursos")
}

func TestGenerate_EscapesSpecialCharacters(t *testing.T) {
	gen := NewGenerator("Plataforma de Cursos")

	pdf, err := gen.Generate(Data{
		StudentName: "José (Zé) da Silva",
		CourseTitle: "Curso \\ Teste",
	})
	require.NoError(t, err)

	assert.Contains(t, string(pdf), `José \(Zé\) da Silva`)
	assert.Contains(t, string(pdf), `Curso \\ Teste`)
}

func TestGenerate_RequiresStudentName(t *testing.T) {
	gen := NewGenerator("Plataforma de Cursos")

	_, err := gen.Generate(Data{CourseTitle: "Node.js"})
	assert.Error(t, err)
}

func TestGenerate_RequiresCourseTitle(t *testing.T) {
	gen := NewGenerator("Plataforma de Cursos")

	_, err := gen.Generate(Data{StudentName: "Maria"})
	assert.Error(t, err)
}

func TestGenerate_DefaultsIssueDate(t *testing.T) {
	gen := NewGenerator("Plataforma de Cursos")

	pdf, err := gen.Generate(Data{
		StudentName: "Maria Silva",
		CourseTitle: "Node.js",
	})
	require.NoError(t, err)

	assert.Contains(t, string(pdf), time.Now().Format("02/01/2006"))
}
