// Package samplepdf renders the demo research paper used to exercise the
// summarizer end to end.
package samplepdf

import (
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
)

// DefaultPath is where the CLI looks for the sample when no file is given.
const DefaultPath = "sample_research.pdf"

// Title is the paper heading.
const Title = "Artificial Intelligence in Healthcare: A Review"

// Content is the paper body.
const Content = `Abstract:
This paper reviews the current state and future prospects of artificial intelligence (AI) in healthcare. Recent advances in machine learning, particularly deep learning, have shown promising results in medical diagnosis, treatment planning, and patient care management.

Introduction:
The integration of artificial intelligence in healthcare has witnessed significant growth over the past decade. Healthcare providers and researchers are increasingly leveraging AI technologies to improve patient outcomes, reduce costs, and enhance operational efficiency.

Key Applications:
1. Medical Imaging Analysis:
AI systems have demonstrated remarkable accuracy in analyzing medical images, including X-rays, MRIs, and CT scans. Deep learning models can detect abnormalities and assist radiologists in making more accurate diagnoses.

2. Clinical Decision Support:
Machine learning algorithms can process vast amounts of patient data to provide evidence-based treatment recommendations and predict patient outcomes.

3. Drug Discovery:
AI accelerates the drug discovery process by analyzing biological data and predicting molecular properties, potentially reducing the time and cost of bringing new drugs to market.

Challenges and Limitations:
Despite its potential, AI in healthcare faces several challenges:
- Data privacy and security concerns
- Integration with existing healthcare systems
- Regulatory compliance
- Need for large, high-quality training datasets

Future Directions:
The future of AI in healthcare looks promising, with emerging applications in:
- Personalized medicine
- Remote patient monitoring
- Automated administrative tasks
- Predictive healthcare analytics

Conclusion:
While challenges remain, the continued development of AI technologies in healthcare shows great promise for improving patient care and medical research outcomes.`

// Write renders the sample paper as a PDF to w.
func Write(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, false)
	pdf.SetCreator("pdfdigest", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 10, Content, "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render sample pdf: %w", err)
	}
	return nil
}

// WriteFile renders the sample paper to path.
func WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
