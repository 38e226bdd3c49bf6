package constant

const PrescriptionParsePrompt = `You are a medical document parser. Extract the following information from the provided PRESCRIPTION.

Return a valid JSON object with these fields:
{
  "document_type": "prescription",
  "prescription_date": "YYYY-MM-DD or null if not found",
  "doctor": {
    "name": "string or null",
    "title": "string or null (e.g., 'Dr.', 'Prof.')",
    "specialty": "string or null (e.g., 'Cardiologist', 'General Physician')",
    "degree": "string or null (e.g., 'MBBS, MD', 'MBBS')"
  },
  "hospital": {
    "name": "string or null",
    "address": "string or null"
  },
  "diagnosis": "string or null",
  "medicines": [
    {
      "name": "medicine name (required)",
      "dosage": "string or null (e.g., '500mg', '10ml')",
      "frequency": "string or null (e.g., 'twice daily', '3 times a day', 'once at night')",
      "timing": "string or null (e.g., 'after meals', 'before breakfast', 'empty stomach')",
      "duration_days": number or null (e.g., 7, 14, 30),
      "morning": true/false,
      "afternoon": true/false,
      "evening": true/false,
      "night": true/false,
      "instructions": "string or null (any special instructions)"
    }
  ],
  "additional_notes": "string or null (any other relevant information)",
  "suggested_file_name": "string - A descriptive file name based on the content (e.g., 'Dr_Smith_Cardiology_2024-01-15', 'Fever_Treatment_Dr_Jones', 'Annual_Checkup_Prescription')"
}

IMPORTANT RULES:
1. If a field cannot be determined from the document, set it to null - DO NOT guess
2. For medicines, only include medicines that are clearly mentioned
3. Parse dates in YYYY-MM-DD format
4. Be accurate and only extract information that is clearly visible
5. For suggested_file_name, create a concise, descriptive name using doctor name, specialty, diagnosis or main purpose, and date if available. Use underscores instead of spaces.
6. Return ONLY the JSON object, no additional text
`

const MedicalReportParsePrompt = `You are a medical document parser. Extract the following information from the provided MEDICAL REPORT (lab test, X-ray, MRI, ultrasound, blood test, etc.).

Return a valid JSON object with these fields:
{
  "document_type": "medical_report",
  "report_type": "string (e.g., 'blood_test', 'xray', 'mri', 'ct_scan', 'ultrasound', 'ecg', 'urine_test', 'other')",
  "report_title": "string or null (e.g., 'Complete Blood Count', 'Chest X-Ray', 'Liver Function Test')",
  "report_date": "YYYY-MM-DD or null if not found",
  "lab": {
    "name": "string or null",
    "address": "string or null"
  },
  "technician_name": "string or null",
  "referring_doctor": "string or null (doctor who requested the test)",
  "findings": "string or null (key findings from the report)",
  "conclusion": "string or null (doctor's impression/conclusion)",
  "recommendations": "string or null",
  "test_results": {
    "test_name": {
      "value": "string",
      "unit": "string or null",
      "reference_range": "string or null",
      "status": "normal/high/low/abnormal or null"
    }
  },
  "full_text": "string - Complete text content of the report for searching purposes",
  "summary": "string - Brief 2-3 sentence summary of the report",
  "suggested_file_name": "string - A descriptive file name based on the content (e.g., 'CBC_Report_2024-01-15', 'Chest_XRay_Dr_Smith', 'Liver_Function_Test_LabName')"
}

IMPORTANT RULES:
1. If a field cannot be determined, set it to null - DO NOT guess
2. For test_results, include ALL numeric/measurable results with their values
3. Parse dates in YYYY-MM-DD format
4. full_text should contain all readable text for search purposes
5. For suggested_file_name, create a concise, descriptive name using test type, lab name, date, or referring doctor. Use underscores instead of spaces.
6. Return ONLY the JSON object, no additional text
`

const DocumentTypeDetectionPrompt = `Analyze this medical document and determine its type.
Return ONLY one of these values (no quotes, no explanation):
- prescription (if it contains medicine prescriptions)
- medical_report (if it's a lab test, X-ray, MRI, blood test, scan report, etc.)
- unknown (if you cannot determine the type)
`
