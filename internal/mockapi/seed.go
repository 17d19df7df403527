package mockapi

import (
	"fmt"

	"github.com/jwalitptl/smarthealth/internal/model"
)

var seedDoctors = []Record{
	{"fullName": "Dr. Meera Shah", "email": "meera.shah@smarthealth.local", "specialty": "Cardiology", "department": "Heart Centre", "experienceYears": 12.0},
	{"fullName": "Dr. Arjun Rao", "email": "arjun.rao@smarthealth.local", "specialty": "Dermatology", "department": "Outpatients", "experienceYears": 7.0},
	{"fullName": "Dr. Lena Fischer", "email": "lena.fischer@smarthealth.local", "specialty": "Pediatrics", "department": "Children", "experienceYears": 9.0},
}

var seedPatients = []Record{
	{"fullName": "Anna Kowalska", "email": "anna@example.com", "phone": "555-0101", "gender": "FEMALE"},
	{"fullName": "Brian O'Neil", "email": "brian@example.com", "phone": "555-0102", "gender": "MALE"},
	{"fullName": "Chen Wei", "email": "chen@example.com", "phone": "555-0103", "gender": "MALE"},
	{"fullName": "Divya Nair", "email": "divya@example.com", "phone": "555-0104", "gender": "FEMALE"},
}

var seedReasons = []string{"Follow-up", "Chest pain", "Skin rash", "Annual check-up", "Fever", "Vaccination", "Back pain"}

const seedAppointments = 14

// seed always creates the admin account. sample adds doctors, patients, a
// staff member, 14 appointments on consecutive days and a few lab results
// and prescriptions.
func (s *Server) seed(sample bool) error {
	if s.cfg.AdminEmail == "" {
		return nil
	}
	if _, err := s.createUser(s.cfg.AdminEmail, s.cfg.AdminPassword, "SmartHealth Admin", model.RoleAdmin); err != nil {
		return err
	}
	if !sample {
		return nil
	}

	if _, err := s.createUser("staff@smarthealth.local", "Staff@1234", "Front Desk", model.RoleStaff); err != nil {
		return err
	}

	var doctorIDs, patientIDs []int64
	for _, d := range seedDoctors {
		r, err := s.store.Create(collDoctors, clone(d, true), nil)
		if err != nil {
			return err
		}
		doctorIDs = append(doctorIDs, r["id"].(int64))
	}
	for _, p := range seedPatients {
		r, err := s.store.Create(collUsers, clone(p, true), Record{"role": model.RolePatient})
		if err != nil {
			return err
		}
		patientIDs = append(patientIDs, r["id"].(int64))
	}

	for i := 0; i < seedAppointments; i++ {
		_, err := s.store.Create(collAppointments, Record{
			"patientId":       patientIDs[i%len(patientIDs)],
			"doctorId":        doctorIDs[i%len(doctorIDs)],
			"appointmentDate": fmt.Sprintf("2024-03-%02d", i+1),
			"appointmentTime": fmt.Sprintf("%02d:00", 9+i%8),
			"reason":          seedReasons[i%len(seedReasons)],
			"status":          string(model.AppointmentStatuses[i%len(model.AppointmentStatuses)]),
		}, nil)
		if err != nil {
			return err
		}
	}

	for i, testType := range []string{"CBC", "Lipid Panel", "X-Ray"} {
		_, err := s.store.Create(collTestResults, Record{
			"appointmentId": int64(i + 1),
			"patientId":     patientIDs[i%len(patientIDs)],
			"testType":      testType,
			"testDate":      fmt.Sprintf("2024-03-%02d", i+1),
		}, nil)
		if err != nil {
			return err
		}
	}

	_, err := s.store.Create(collPrescriptions, Record{
		"appointmentId": int64(1),
		"patientId":     patientIDs[0],
		"doctorId":      doctorIDs[0],
		"diagnosis":     "Hypertension",
		"issuedDate":    "2024-03-01",
		"medications": []interface{}{
			map[string]interface{}{"medicineName": "Amlodipine", "dosage": "5mg", "frequency": "daily"},
			map[string]interface{}{"medicineName": "Aspirin", "dosage": "75mg", "frequency": "daily"},
		},
	}, nil)
	return err
}

func (s *Server) createUser(email, password, name, role string) (Record, error) {
	rec := Record{"fullName": name, "email": email, "role": role, "password": password}
	if err := s.preparePassword(collUsers, rec, true); err != nil {
		return nil, fmt.Errorf("failed to prepare %s: %w", email, err)
	}
	return s.store.Create(collUsers, rec, nil)
}
