// Package testutil provides shared testing helpers for the RVC service.
//
// It contains:
//
//   - MockServices / MockVoiceService: testify mocks of the API service layer (mock_services.go)
//   - TestVoiceModels, TestWAV, WriteTestWAV and MultipartForm fixtures (fixtures.go)
//
// # Usage
//
//	func TestTrain(t *testing.T) {
//	    ms := testutil.NewMockServices(t)
//	    ms.VoiceService.On("Train", mock.Anything, mock.Anything, "sample.wav").
//	        Return(&dto.TrainResponse{Success: true, ModelID: "v1"}, nil)
//
//	    body, contentType := testutil.MultipartForm(t,
//	        map[string]string{"voice_id": "v1"}, "sample.wav", testutil.TestWAV(16000, 160))
//	    // ... post body to the router
//	}
package testutil
