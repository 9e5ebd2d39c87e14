package extras

import (
	"testing"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/latexsyntax"
	"github.com/texlab-project/texlab-core/internal/source"
)

func parse(t *testing.T, src string) (*latexsyntax.Tree, []byte) {
	t.Helper()
	file := source.NewFile("main.tex", []byte(src))
	return latexsyntax.Parse(file, nil), file.Content
}

func TestExtractExtrasDocumentEnvironment(t *testing.T) {
	tree, content := parse(t, `\begin{document}hello\end{document}`)
	ex := ExtractExtras(tree, content, "file:///main.tex", db.NullResolver{})
	if !ex.HasDocumentEnvironment {
		t.Fatalf("expected HasDocumentEnvironment")
	}
	if !ex.EnvironmentNames["document"] {
		t.Fatalf("expected environment_names to contain document")
	}
}

func TestExtractExtrasInclude(t *testing.T) {
	tree, content := parse(t, `\input{chapters/intro}`)
	ex := ExtractExtras(tree, content, "file:///proj/main.tex", db.NullResolver{})
	if len(ex.ExplicitLinks) != 1 {
		t.Fatalf("expected 1 link, got %d", len(ex.ExplicitLinks))
	}
	link := ex.ExplicitLinks[0]
	if link.Kind != LinkLaTeX || link.Stem != "chapters/intro" {
		t.Fatalf("unexpected link: %+v", link)
	}
	found := false
	for _, target := range link.Targets {
		if target == "file:///proj/chapters/intro.tex" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a .tex candidate target, got %v", link.Targets)
	}
}

func TestExtractExtrasBibliographyMultiple(t *testing.T) {
	tree, content := parse(t, `\bibliography{refs,extra}`)
	ex := ExtractExtras(tree, content, "file:///proj/main.tex", db.NullResolver{})
	if len(ex.ExplicitLinks) != 2 {
		t.Fatalf("expected 2 links, got %d: %+v", len(ex.ExplicitLinks), ex.ExplicitLinks)
	}
	if ex.ExplicitLinks[0].Kind != LinkBibTeX || ex.ExplicitLinks[0].Stem != "refs" {
		t.Fatalf("unexpected first link: %+v", ex.ExplicitLinks[0])
	}
	if ex.ExplicitLinks[1].Stem != "extra" {
		t.Fatalf("unexpected second link: %+v", ex.ExplicitLinks[1])
	}
}

func TestExtractExtrasUsepackage(t *testing.T) {
	tree, content := parse(t, `\usepackage[some=opt]{amsmath,hyperref}`)
	ex := ExtractExtras(tree, content, "file:///proj/main.tex", db.NullResolver{})
	if len(ex.ExplicitLinks) != 2 {
		t.Fatalf("expected 2 package links, got %d", len(ex.ExplicitLinks))
	}
	for _, l := range ex.ExplicitLinks {
		if l.Kind != LinkPackage {
			t.Fatalf("expected LinkPackage, got %v", l.Kind)
		}
	}
}

func TestExtractExtrasImportCommand(t *testing.T) {
	tree, content := parse(t, `\import{chapters/}{intro}`)
	ex := ExtractExtras(tree, content, "file:///proj/main.tex", db.NullResolver{})
	if len(ex.ExplicitLinks) != 1 {
		t.Fatalf("expected 1 link, got %d", len(ex.ExplicitLinks))
	}
	link := ex.ExplicitLinks[0]
	if link.Stem != "intro" || link.Kind != LinkLaTeX {
		t.Fatalf("unexpected link: %+v", link)
	}
	found := false
	for _, target := range link.Targets {
		if target == "file:///proj/chapters/intro.tex" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected dir-joined target, got %v", link.Targets)
	}
}

func TestExtractExtrasLabelDefAndRef(t *testing.T) {
	tree, content := parse(t, `\label{sec:intro} see \ref{sec:intro} and \cref{sec:intro}`)
	ex := ExtractExtras(tree, content, "file:///main.tex", db.NullResolver{})
	if len(ex.LabelNames) != 3 {
		t.Fatalf("expected 3 label occurrences, got %d: %+v", len(ex.LabelNames), ex.LabelNames)
	}
	if !ex.LabelNames[0].IsDefinition {
		t.Fatalf("expected first occurrence to be the definition")
	}
	if ex.LabelNames[1].IsDefinition || ex.LabelNames[2].IsDefinition {
		t.Fatalf("expected ref occurrences to not be definitions")
	}
}

func TestExtractExtrasTheoremDef(t *testing.T) {
	tree, content := parse(t, `\newtheorem{lemma}{Lemma}`)
	ex := ExtractExtras(tree, content, "file:///main.tex", db.NullResolver{})
	if len(ex.TheoremEnvironments) != 1 {
		t.Fatalf("expected 1 theorem environment, got %d", len(ex.TheoremEnvironments))
	}
	th := ex.TheoremEnvironments[0]
	if th.Name != "lemma" || th.Description != "Lemma" {
		t.Fatalf("unexpected theorem def: %+v", th)
	}
}

func TestExtractExtrasGraphicsPath(t *testing.T) {
	tree, content := parse(t, `\graphicspath{{img/}{figures/}}`)
	ex := ExtractExtras(tree, content, "file:///main.tex", db.NullResolver{})
	if !ex.GraphicsPaths["img/"] || !ex.GraphicsPaths["figures/"] {
		t.Fatalf("expected both graphics paths, got %+v", ex.GraphicsPaths)
	}
}

func TestExtractExtrasCommandDefinition(t *testing.T) {
	tree, content := parse(t, `\newcommand{\foo}[2]{bar}`)
	ex := ExtractExtras(tree, content, "file:///main.tex", db.NullResolver{})
	if len(ex.CommandDefinitions) != 1 {
		t.Fatalf("expected 1 command definition, got %d", len(ex.CommandDefinitions))
	}
	cd := ex.CommandDefinitions[0]
	if cd.Name != "foo" || cd.ParamCount != 2 {
		t.Fatalf("unexpected command definition: %+v", cd)
	}
}

func TestExtractExtrasEnvironmentDefinition(t *testing.T) {
	tree, content := parse(t, `\newenvironment{myenv}{\begin{center}}{\end{center}}`)
	ex := ExtractExtras(tree, content, "file:///main.tex", db.NullResolver{})
	if len(ex.EnvironmentDefinitions) != 1 || ex.EnvironmentDefinitions[0] != "myenv" {
		t.Fatalf("unexpected environment definitions: %v", ex.EnvironmentDefinitions)
	}
}

func TestParseAuxNewLabel(t *testing.T) {
	aux := []byte(`\newlabel{sec:intro}{{1}{1}{Introduction}{section.1}{}}` + "\n" +
		`\newlabel{fig:plot}{{2}{3}{A plot}{figure.2}{}}` + "\n")
	labels := ParseAux(aux)
	if labels["sec:intro"] != "1" {
		t.Fatalf("expected sec:intro -> 1, got %q", labels["sec:intro"])
	}
	if labels["fig:plot"] != "2" {
		t.Fatalf("expected fig:plot -> 2, got %q", labels["fig:plot"])
	}
}

func TestMergeAuxNumbers(t *testing.T) {
	ex := Extras{LabelNames: []LabelName{
		{Text: "sec:intro", IsDefinition: true},
		{Text: "sec:intro", IsDefinition: false},
	}}
	MergeAuxNumbers(&ex, map[string]string{"sec:intro": "1"})
	if ex.LabelNumbersByName["sec:intro"] != "1" {
		t.Fatalf("expected label number to be merged, got %+v", ex.LabelNumbersByName)
	}
}
